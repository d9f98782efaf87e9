// Package audio converts telephony audio between the carrier's 8 kHz G.711
// mu-law frames and the linear PCM the realtime model can be configured for.
package audio

import (
	"encoding/base64"
	"fmt"
)

const (
	muLawBias = 0x84
	muLawClip = 32635
)

// DecodeError is returned when a base64 transport payload cannot be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("audio: decode payload: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// MuLawToPCM16 expands mu-law samples into 16-bit little-endian PCM. The
// output holds exactly one sample per input byte.
func MuLawToPCM16(mulaw []byte) []byte {
	pcm := make([]byte, len(mulaw)*2)
	for i, b := range mulaw {
		putSample(pcm, i, muLawToLinear(b))
	}
	return pcm
}

// PCM16ToMuLaw compresses 16-bit little-endian PCM into mu-law. A trailing odd
// byte is not a full sample and is ignored.
func PCM16ToMuLaw(pcm []byte) []byte {
	n := len(pcm) / 2
	mulaw := make([]byte, n)
	for i := 0; i < n; i++ {
		mulaw[i] = linearToMuLaw(sampleAt(pcm, i))
	}
	return mulaw
}

// EncodeBase64 encodes raw audio for a JSON transport field.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 decodes a JSON transport field back to raw audio.
func DecodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return data, nil
}

func muLawToLinear(b byte) int16 {
	u := ^b
	t := (int32(u&0x0F) << 3) + muLawBias
	t <<= (u & 0x70) >> 4
	if u&0x80 != 0 {
		return int16(muLawBias - t)
	}
	return int16(t - muLawBias)
}

func linearToMuLaw(sample int16) byte {
	s := int32(sample)
	var sign byte
	if s < 0 {
		s = -s
		sign = 0x80
	}
	if s > muLawClip {
		s = muLawClip
	}
	s += muLawBias

	exponent := byte(7)
	for mask := int32(0x4000); s&mask == 0 && exponent > 0; mask >>= 1 {
		exponent--
	}
	mantissa := byte(s>>(exponent+3)) & 0x0F

	return ^(sign | exponent<<4 | mantissa)
}

func sampleAt(pcm []byte, i int) int16 {
	return int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8)
}

func putSample(pcm []byte, i int, s int16) {
	pcm[2*i] = byte(s)
	pcm[2*i+1] = byte(uint16(s) >> 8)
}

// downsamplePCM keeps every factor-th sample.
func downsamplePCM(pcm []byte, factor int) []byte {
	samples := len(pcm) / 2
	out := make([]byte, ((samples+factor-1)/factor)*2)
	for i, j := 0, 0; i < samples; i, j = i+factor, j+1 {
		putSample(out, j, sampleAt(pcm, i))
	}
	return out
}

// upsamplePCM inserts linearly interpolated samples between neighbours.
func upsamplePCM(pcm []byte, factor int) []byte {
	samples := len(pcm) / 2
	out := make([]byte, samples*factor*2)
	for i := 0; i < samples; i++ {
		current := int32(sampleAt(pcm, i))
		next := current
		if i+1 < samples {
			next = int32(sampleAt(pcm, i+1))
		}
		for j := 0; j < factor; j++ {
			putSample(out, i*factor+j, int16(current+(next-current)*int32(j)/int32(factor)))
		}
	}
	return out
}
