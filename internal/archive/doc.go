// Package archive persists decode sessions to SQLite.
//
// A session is one run of the decoder over a capture source. Every
// annotation and temperature measurement the decoder emits during the
// run is archived against the session, so the REST API can replay a
// past decode without re-reading the capture.
//
// # Architecture
//
//	Decoder ──annotations──▶ Recorder ──▶ Repository ──▶ SQLite
//	        ──measurements─▶
//
// Repository is the persistence interface; SQLiteRepository is the
// production implementation. Recorder adapts the repository to the
// decoder's sink interfaces and binds output to one session.
//
// # Usage
//
//	repo := archive.NewSQLiteRepository(db.Conn())
//	session := archive.NewSession("capture.jsonl", "hex", "celsius")
//	rec, err := archive.NewRecorder(ctx, repo, session, log)
//	if err != nil {
//	    return err
//	}
//	defer rec.Finish(ctx)
//
//	dec := tmp102.New(opts, rec)
//	dec.SetMeasurementSink(rec)
//
// # Thread Safety
//
// SQLiteRepository is safe for concurrent use; the underlying connection
// pool is limited to a single writer. Recorder is driven by the decoder
// goroutine only.
package archive
