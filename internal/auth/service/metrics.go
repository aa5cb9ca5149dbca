package service

import "github.com/kvolkov/session-gate/internal/observability/metrics"

func incrementSessionsCreated() {
	metrics.SessionsCreated.Inc()
	metrics.SessionsActive.Inc()
}

func incrementSessionsResolved() {
	metrics.SessionsResolved.Inc()
}

func incrementSessionsRejected() {
	metrics.SessionsRejected.Inc()
}

func sessionRemoved(expired bool) {
	metrics.SessionsActive.Dec()
	if expired {
		metrics.SessionsExpired.Inc()
	}
}

func incrementLoginFailures() {
	metrics.LoginFailuresTotal.Inc()
}

func incrementSignups() {
	metrics.SignupsTotal.Inc()
}
