package nowplaying

import (
	"context"
	"time"

	"github.com/tessro/tuneboard/internal/core"
	"github.com/tessro/tuneboard/internal/history"
	"github.com/tessro/tuneboard/internal/logging"
	"github.com/tessro/tuneboard/internal/metrics"
)

// HistoryPoller fetches the playback snapshot on an interval and hands it to
// a history.Recorder. It is the single writer of the history log.
type HistoryPoller struct {
	player   core.Player
	creds    core.CredentialSource
	recorder *history.Recorder
	loop     *Loop
}

// NewHistoryPoller creates a poller running every interval.
func NewHistoryPoller(player core.Player, creds core.CredentialSource, recorder *history.Recorder, interval time.Duration) *HistoryPoller {
	p := &HistoryPoller{player: player, creds: creds, recorder: recorder}
	p.loop = NewLoop("history", interval, 0, func(ctx context.Context) {
		_, _ = p.Cycle(ctx)
	})
	return p
}

// Cycle runs one fetch-decide-persist round. Failures are logged, counted
// and returned; nothing is written when the log cannot be read.
func (p *HistoryPoller) Cycle(ctx context.Context) (history.Result, error) {
	log := logging.Ctx(ctx)

	cred, err := p.creds.Credential(ctx)
	if err != nil {
		metrics.HistoryErrors.WithLabelValues("credential").Inc()
		log.Warn().Err(err).Msg("history cycle skipped: no credential")
		return history.Result{}, err
	}

	snap, err := p.player.CurrentlyPlaying(ctx, cred)
	if err != nil {
		metrics.HistoryErrors.WithLabelValues("fetch").Inc()
		log.Warn().Err(err).Msg("history cycle: playback fetch failed")
		return history.Result{}, err
	}

	res, err := p.recorder.Record(snap)
	if err != nil {
		metrics.HistoryErrors.WithLabelValues("store").Inc()
		log.Error().Err(err).Str("path", p.recorder.Store().Path()).Msg("history cycle: store failed")
		return res, err
	}

	metrics.RecordHistoryCycle(string(res.Reason), res.Appended, len(res.Log))
	if res.Appended {
		log.Info().
			Str("reason", string(res.Reason)).
			Str("track", res.Record.Title()).
			Str("artist", res.Record.Artist()).
			Int64("ms_played", res.Record.MsPlayed).
			Int("records", len(res.Log)).
			Msg("history record appended")
	} else {
		log.Debug().Str("reason", string(res.Reason)).Msg("history unchanged")
	}
	return res, nil
}

// Serve runs the poll loop. It implements suture.Service.
func (p *HistoryPoller) Serve(ctx context.Context) error {
	return p.loop.Serve(ctx)
}

// Stop ends Serve.
func (p *HistoryPoller) Stop() {
	p.loop.Stop()
}

func (p *HistoryPoller) String() string {
	return "history-poller"
}
