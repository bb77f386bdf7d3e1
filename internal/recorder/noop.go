package recorder

// NoopRecorder is a no-op implementation used when no store is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSample(_ *SampleSnapshot) error { return nil }
func (n *NoopRecorder) Close() error                          { return nil }
