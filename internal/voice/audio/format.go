package audio

import "fmt"

type Encoding string

const (
	EncodingMuLaw Encoding = "g711_ulaw"
	EncodingPCM16 Encoding = "pcm16"
)

// Format describes one leg's audio: its encoding and sample rate.
type Format struct {
	Encoding   Encoding
	SampleRate int
}

// CarrierFormat is what media-stream carriers send and expect.
var CarrierFormat = Format{Encoding: EncodingMuLaw, SampleRate: 8000}

// ParseFormat maps a configuration name to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "g711_ulaw":
		return CarrierFormat, nil
	case "pcm16":
		return Format{Encoding: EncodingPCM16, SampleRate: 8000}, nil
	case "pcm16_24k":
		return Format{Encoding: EncodingPCM16, SampleRate: 24000}, nil
	default:
		return Format{}, fmt.Errorf("audio: unknown format %q", name)
	}
}

// Transcoder converts frames between the carrier leg and the model leg.
type Transcoder struct {
	carrier Format
	ai      Format
}

func NewTranscoder(carrier, ai Format) *Transcoder {
	return &Transcoder{carrier: carrier, ai: ai}
}

// Passthrough reports whether both legs share a format.
func (t *Transcoder) Passthrough() bool {
	return t.carrier == t.ai
}

// ToAI converts a carrier frame for the model leg.
func (t *Transcoder) ToAI(frame []byte) []byte {
	return convert(frame, t.carrier, t.ai)
}

// ToCarrier converts a model frame for the carrier leg.
func (t *Transcoder) ToCarrier(frame []byte) []byte {
	return convert(frame, t.ai, t.carrier)
}

func convert(frame []byte, from, to Format) []byte {
	if from == to {
		return frame
	}

	pcm := frame
	if from.Encoding == EncodingMuLaw {
		pcm = MuLawToPCM16(frame)
	}

	switch {
	case from.SampleRate == to.SampleRate:
	case to.SampleRate > from.SampleRate && to.SampleRate%from.SampleRate == 0:
		pcm = upsamplePCM(pcm, to.SampleRate/from.SampleRate)
	case from.SampleRate > to.SampleRate && from.SampleRate%to.SampleRate == 0:
		pcm = downsamplePCM(pcm, from.SampleRate/to.SampleRate)
	}

	if to.Encoding == EncodingMuLaw {
		return PCM16ToMuLaw(pcm)
	}
	return pcm
}
