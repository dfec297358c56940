package audio

import (
	"encoding/binary"
	"fmt"
)

// EncodeWAV wraps mono PCM16 samples in a standard RIFF/WAVE container.
func EncodeWAV(samples []int16, sampleRate int) []byte {
	dataLen := len(samples) * 2
	buf := make([]byte, 0, 44+dataLen)

	le16 := func(v uint16) []byte {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		return b
	}
	le32 := func(v uint32) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		return b
	}

	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, le32(uint32(36+dataLen))...)
	buf = append(buf, []byte("WAVE")...)

	buf = append(buf, []byte("fmt ")...)
	buf = append(buf, le32(16)...)
	buf = append(buf, le16(1)...) // PCM
	buf = append(buf, le16(1)...) // mono
	buf = append(buf, le32(uint32(sampleRate))...)
	buf = append(buf, le32(uint32(sampleRate*2))...) // byte rate
	buf = append(buf, le16(2)...)                    // block align
	buf = append(buf, le16(16)...)                   // bits per sample

	buf = append(buf, []byte("data")...)
	buf = append(buf, le32(uint32(dataLen))...)
	for _, s := range samples {
		buf = append(buf, byte(uint16(s)&0xFF), byte(uint16(s)>>8))
	}
	return buf
}

// DecodeWAV parses a PCM16 WAV container and returns mono samples plus the
// sample rate. Stereo input is averaged down to mono.
func DecodeWAV(b []byte) ([]int16, int, error) {
	if len(b) < 44 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("not a WAV")
	}
	off := 12
	var dataOff, dataLen int
	var channels uint16
	var sampleRate uint32
	for off+8 <= len(b) {
		cid := string(b[off : off+4])
		csz := int(binary.LittleEndian.Uint32(b[off+4 : off+8]))
		off += 8
		if cid == "fmt " {
			if off+16 > len(b) {
				return nil, 0, fmt.Errorf("bad fmt chunk")
			}
			fmtTag := binary.LittleEndian.Uint16(b[off : off+2])
			channels = binary.LittleEndian.Uint16(b[off+2 : off+4])
			sampleRate = binary.LittleEndian.Uint32(b[off+4 : off+8])
			bits := binary.LittleEndian.Uint16(b[off+14 : off+16])
			if fmtTag != 1 || bits != 16 {
				return nil, 0, fmt.Errorf("unsupported WAV format tag=%d bits=%d", fmtTag, bits)
			}
			off += csz + csz%2 // chunks are word-aligned; odd sizes carry a pad byte
		} else if cid == "data" {
			dataOff = off
			dataLen = csz
			break
		} else {
			off += csz + csz%2
		}
	}
	if dataOff <= 0 || dataOff+dataLen > len(b) {
		return nil, 0, fmt.Errorf("no data chunk")
	}
	raw := b[dataOff : dataOff+dataLen]

	if channels == 2 {
		out := make([]int16, 0, len(raw)/4)
		for i := 0; i+3 < len(raw); i += 4 {
			l := int16(binary.LittleEndian.Uint16(raw[i : i+2]))
			r := int16(binary.LittleEndian.Uint16(raw[i+2 : i+4]))
			out = append(out, int16((int32(l)+int32(r))/2))
		}
		return out, int(sampleRate), nil
	}

	out := make([]int16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		out = append(out, int16(binary.LittleEndian.Uint16(raw[i:i+2])))
	}
	return out, int(sampleRate), nil
}
