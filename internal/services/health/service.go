package health

// Source reports one component's contribution to the health payload.
type Source interface {
	HealthFields() map[string]any
}

// SourceFunc adapts a function to Source.
type SourceFunc func() map[string]any

func (f SourceFunc) HealthFields() map[string]any { return f() }

// Service encapsulates health-related checks.
type Service struct {
	sources []Source
}

// NewService constructs a new health service from its sources.
func NewService(sources ...Source) *Service {
	return &Service{sources: sources}
}

// Status merges every source into one payload. Later sources win on key
// collisions; "ok" is always true while the process can answer.
func (s *Service) Status() map[string]any {
	out := map[string]any{}
	for _, src := range s.sources {
		if src == nil {
			continue
		}
		for k, v := range src.HealthFields() {
			out[k] = v
		}
	}
	out["ok"] = true
	return out
}
