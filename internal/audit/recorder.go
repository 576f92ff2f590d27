package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Recorder writes an audit trail of security-relevant actions. Every record
// goes to the structured log; when a postgres pool is configured the record
// is persisted too. Audit failures never fail the recorded operation.
type Recorder struct {
	log  zerolog.Logger
	pool *pgxpool.Pool
}

func New(log zerolog.Logger, pool *pgxpool.Pool) *Recorder {
	return &Recorder{
		log:  log.With().Bool("audit", true).Logger(),
		pool: pool,
	}
}

func (r *Recorder) Record(ctx context.Context, action, actorID, targetID string, detail map[string]string) {
	if r == nil {
		return
	}

	event := r.log.Info().
		Str("action", action).
		Str("actor_id", actorID).
		Str("target_id", targetID)
	for k, v := range detail {
		event = event.Str(k, v)
	}
	event.Msg("audit event")

	if r.pool == nil {
		return
	}

	const query = `
		INSERT INTO audit_log (action, actor_id, target_id, detail, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	if _, err := r.pool.Exec(ctx, query, action, actorID, targetID, detail); err != nil {
		r.log.Warn().Err(err).Str("action", action).Msg("audit persist failed")
	}
}
