package archive

import (
	"context"
	"time"

	"github.com/openprobe/thermodec/internal/annotation"
	"github.com/openprobe/thermodec/internal/infrastructure/logging"
	"github.com/openprobe/thermodec/internal/tmp102"
)

// Recorder persists a single session's decode output as it is emitted.
//
// It implements annotation.Sink and tmp102.MeasurementSink so the decoder
// can write straight into the archive. Insert failures are logged and
// dropped rather than propagated; a storage hiccup must not stall the
// decode stream.
type Recorder struct {
	repo    Repository
	session Session
	log     *logging.Logger
}

// NewRecorder creates the session row and returns a recorder bound to it.
func NewRecorder(ctx context.Context, repo Repository, session Session, log *logging.Logger) (*Recorder, error) {
	if err := repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return &Recorder{repo: repo, session: session, log: log}, nil
}

// Session returns the session this recorder writes into.
func (r *Recorder) Session() Session {
	return r.session
}

// Annotate implements annotation.Sink.
func (r *Recorder) Annotate(ev annotation.Event) {
	if len(ev.Variants) == 0 {
		return
	}
	a := Annotation{
		SessionID: r.session.ID,
		Row:       ev.Row.String(),
		Start:     ev.Start,
		End:       ev.End,
		Text:      ev.Variants[0],
		Variants:  ev.Variants,
	}
	if err := r.repo.InsertAnnotation(context.Background(), a); err != nil {
		r.log.Error("failed to archive annotation",
			"session_id", r.session.ID,
			"row", a.Row,
			"error", err)
	}
}

// Measure implements tmp102.MeasurementSink.
func (r *Recorder) Measure(m tmp102.Measurement) {
	rec := Measurement{
		SessionID: r.session.ID,
		Register:  m.Register.String(),
		Celsius:   m.Celsius,
		Value:     m.Value,
		Unit:      m.Unit.String(),
		Start:     m.Start,
		End:       m.End,
	}
	if err := r.repo.InsertMeasurement(context.Background(), rec); err != nil {
		r.log.Error("failed to archive measurement",
			"session_id", r.session.ID,
			"register", rec.Register,
			"error", err)
	}
}

// Finish stamps the session's finished_at.
func (r *Recorder) Finish(ctx context.Context) error {
	return r.repo.FinishSession(ctx, r.session.ID, time.Now().UTC())
}
