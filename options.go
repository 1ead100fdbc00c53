package mancalc

// Option is an option used when creating a Machine.
type Option interface {
	machineOption()
}

type (
	precopt    uint
	logopt     struct{ l Logger }
	displayopt DisplayMode
)

func (precopt) machineOption()    {}
func (logopt) machineOption()     {}
func (displayopt) machineOption() {}

// Prec sets the number of significant decimal digits of numbers the machine
// creates.
func Prec(prec uint) Option {
	return precopt(prec)
}

// WithLogger sets the Logger that receives push failures. A nil Logger
// discards them.
func WithLogger(l Logger) Option {
	return logopt{l}
}

// Display sets the initial display mode.
func Display(mode DisplayMode) Option {
	return displayopt(mode)
}
