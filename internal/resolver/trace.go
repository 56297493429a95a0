package resolver

import "github.com/rs/zerolog"

// Tracer observes the intermediate steps of a resolution. Implementations
// must not influence the result.
type Tracer interface {
	Resolving(specifier, importer string)
	TryPrefix(prefix string)
	Remapped(from, to string)
	Resolved(specifier string, ref Reference)
}

// NopTracer discards every event
type NopTracer struct{}

func (NopTracer) Resolving(string, string)   {}
func (NopTracer) TryPrefix(string)           {}
func (NopTracer) Remapped(string, string)    {}
func (NopTracer) Resolved(string, Reference) {}

// LogTracer writes resolution steps as debug events
type LogTracer struct {
	logger zerolog.Logger
}

// NewLogTracer creates a tracer tagged with component=resolver
func NewLogTracer(logger zerolog.Logger) *LogTracer {
	return &LogTracer{
		logger: logger.With().Str("component", "resolver").Logger(),
	}
}

func (t *LogTracer) Resolving(specifier, importer string) {
	t.logger.Debug().
		Str("specifier", specifier).
		Str("importer", importer).
		Msg("Resolving import")
}

func (t *LogTracer) TryPrefix(prefix string) {
	t.logger.Debug().Str("prefix", prefix).Msg("Trying remap prefix")
}

func (t *LogTracer) Remapped(from, to string) {
	t.logger.Debug().Str("from", from).Str("to", to).Msg("Remapped absolute import")
}

func (t *LogTracer) Resolved(specifier string, ref Reference) {
	event := t.logger.Debug().
		Str("specifier", specifier).
		Str("kind", ref.Kind.String())
	switch ref.Kind {
	case KindPath:
		event = event.Str("path", ref.Path)
	case KindExternal:
		event = event.Str("id", ref.ID)
	}
	event.Msg("Resolved import")
}
