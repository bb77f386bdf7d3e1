package recorder

import (
	"errors"

	"GasSentinel/internal/model"
)

// SampleSnapshot holds one ingested sample together with the analysis
// derived right after it entered history.
type SampleSnapshot struct {
	Sample         model.Sample
	Trend          model.Trend
	Recommendation model.Recommendation
}

// Recorder persists ingested samples for later analysis.
type Recorder interface {
	RecordSample(snap *SampleSnapshot) error
	Close() error
}

// MultiRecorder fans a snapshot out to several recorders.
type MultiRecorder struct {
	recorders []Recorder
}

// NewMultiRecorder combines recorders. Nil entries are skipped.
func NewMultiRecorder(recs ...Recorder) *MultiRecorder {
	m := &MultiRecorder{}
	for _, r := range recs {
		if r != nil {
			m.recorders = append(m.recorders, r)
		}
	}
	return m
}

// RecordSample writes to every recorder and joins their errors.
func (m *MultiRecorder) RecordSample(snap *SampleSnapshot) error {
	var errs []error
	for _, r := range m.recorders {
		if err := r.RecordSample(snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiRecorder) Close() error {
	var errs []error
	for _, r := range m.recorders {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
