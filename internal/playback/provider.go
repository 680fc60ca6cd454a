package playback

import (
	"context"

	"github.com/killallgit/dubber-api/internal/models"
	"github.com/killallgit/dubber-api/internal/services/scheduler"
	"github.com/killallgit/dubber-api/internal/services/sessions"
)

// SessionProvider adapts one session and the production scheduler to the
// Provider interface. Every query doubles as a production request, so simply
// driving a synchronizer keeps the look-ahead window warm.
type SessionProvider struct {
	session   *sessions.Session
	scheduler *scheduler.Scheduler
}

// NewSessionProvider wires a provider for one session
func NewSessionProvider(session *sessions.Session, sched *scheduler.Scheduler) *SessionProvider {
	return &SessionProvider{session: session, scheduler: sched}
}

// UnitAt resolves the unit covering timeSec, triggering production of it and
// the look-ahead window
func (p *SessionProvider) UnitAt(ctx context.Context, timeSec float64) (Unit, bool) {
	current, _ := p.scheduler.RequestUnitsNear(ctx, p.session, timeSec)
	if current == nil {
		return Unit{}, false
	}
	return p.toUnit(*current), true
}

// UnitByIndex resolves one explicitly addressed unit
func (p *SessionProvider) UnitByIndex(ctx context.Context, index int) (Unit, bool) {
	status, err := p.scheduler.RequestUnit(ctx, p.session, index)
	if err != nil {
		return Unit{}, false
	}
	return p.toUnit(status), true
}

func (p *SessionProvider) toUnit(st scheduler.UnitStatus) Unit {
	unit := Unit{
		Index: st.Index,
		Start: st.StartTime,
		End:   st.EndTime,
		Ready: st.Status == models.AudioStatusReady,
	}
	if unit.Ready {
		if seg, ok := p.session.Snapshot(st.Index); ok {
			unit.Audio = seg.AudioData
		}
	}
	return unit
}
