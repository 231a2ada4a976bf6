package logger

type discard struct{}

func (discard) Emit(Level, string) {}

type nop struct {
	Leveled
}

// NewNop returns a logger that discards everything
func NewNop() Logger { return nop{Leveled{discard{}}} }

func (n nop) WithField(string, any) Logger     { return n }
func (n nop) WithFields(map[string]any) Logger { return n }
func (n nop) WithError(error) Logger           { return n }
func (nop) GetLevel() Level                    { return Disabled }
