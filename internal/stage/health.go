package stage

// Health reports whether an interview stage can run with the current
// configuration, e.g. the interviewer with no oracle and no question bank.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Healthy marks a stage as ready.
func Healthy(name string) Health {
	return Health{Name: name, Ready: true}
}

// Unhealthy marks a stage as not ready, with a human-readable reason.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Ready: false, Detail: detail}
}
