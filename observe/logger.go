package observe

import (
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/colgen/event"
)

// Logger logs events through a logrus entry.
type Logger struct {
	log *logrus.Entry
}

// NewLogger returns a Logger writing to l, or to the standard logrus logger
// when l is nil.
func NewLogger(l *logrus.Logger) *Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}

	return &Logger{log: logrus.NewEntry(l).WithField("component", "bap")}
}

func nodeFields(n event.NodeInfo) logrus.Fields {
	f := logrus.Fields{
		"node":  n.ID,
		"depth": n.Depth,
		"bound": n.Bound,
	}
	if n.Decision != "" {
		f["decision"] = n.Decision
	}

	return f
}

// Observe implements event.Listener.
func (l *Logger) Observe(e event.Event) {
	switch x := e.(type) {
	case event.Started:
		entry := l.log.WithField("maximize", x.Maximize)
		if x.HasIncumbent {
			entry = entry.WithField("incumbent", x.Incumbent)
		}
		entry.Info("search started")
	case event.NodePopped:
		l.log.WithFields(nodeFields(x.Node)).WithField("open", x.Queue).Debug("node popped")
	case event.NodePruned:
		l.log.WithFields(nodeFields(x.Node)).WithField("incumbent", x.Incumbent).Debug("node pruned")
	case event.NodeInfeasible:
		l.log.WithFields(nodeFields(x.Node)).WithField("reason", x.Reason).Debug("node infeasible")
	case event.NodeIntegral:
		l.log.WithFields(nodeFields(x.Node)).WithFields(logrus.Fields{
			"objective": x.Objective,
			"improved":  x.Improved,
		}).Debug("node integral")
	case event.NodeFractional:
		l.log.WithFields(nodeFields(x.Node)).WithField("objective", x.Objective).Debug("node fractional")
	case event.BranchCreated:
		l.log.WithFields(nodeFields(x.Parent)).WithFields(logrus.Fields{
			"creator":  x.Creator,
			"children": len(x.Children),
		}).Debug("branched")
	case event.IncumbentUpdated:
		l.log.WithFields(logrus.Fields{"node": x.NodeID, "objective": x.Objective}).Info("new incumbent")
	case event.MasterSolved:
		l.log.WithFields(logrus.Fields{
			"node":      x.NodeID,
			"iteration": x.Iteration,
			"status":    x.Status,
			"objective": x.Objective,
			"took":      x.Duration,
		}).Trace("master solved")
	case event.PricingSolved:
		l.log.WithFields(logrus.Fields{
			"node":      x.NodeID,
			"iteration": x.Iteration,
			"columns":   x.Columns,
			"took":      x.Duration,
		}).Trace("pricing solved")
	case event.CutsAdded:
		l.log.WithFields(logrus.Fields{"node": x.NodeID, "cuts": len(x.Cuts)}).Debug("cuts added")
	case event.TimeLimitHit:
		entry := l.log.WithFields(logrus.Fields{"node": x.NodeID, "bound": x.Bound})
		if x.HasIncumbent {
			entry = entry.WithField("incumbent", x.Incumbent)
		}
		entry.Warn("time limit reached")
	case event.Finished:
		entry := l.log.WithFields(logrus.Fields{
			"optimal": x.Optimal,
			"bound":   x.Bound,
			"nodes":   x.Nodes,
			"master":  x.MasterTime,
			"pricing": x.PricingTime,
		})
		if x.HasIncumbent {
			entry = entry.WithField("incumbent", x.Incumbent)
		}
		entry.Info("search finished")
	}
}
