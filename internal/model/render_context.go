package model

import "fmt"

type Mode int

const (
	Production Mode = iota
	Development
)

func (m Mode) String() string {
	switch m {
	case Development:
		return "development"
	default:
		return "production"
	}
}

// ParseMode accepts the APP_ENV values used by config.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "production", "prod", "":
		return Production, nil
	case "development", "dev", "staging":
		return Development, nil
	}
	return Production, fmt.Errorf("unknown render mode %q", s)
}

// RenderContext is passed into every feed operation. Draft visibility is a
// function of it alone.
type RenderContext struct {
	Mode Mode
}

func ProductionContext() RenderContext {
	return RenderContext{Mode: Production}
}

func DevelopmentContext() RenderContext {
	return RenderContext{Mode: Development}
}

func (rc RenderContext) ShowDrafts() bool {
	return rc.Mode == Development
}

func (rc RenderContext) String() string {
	return rc.Mode.String()
}
