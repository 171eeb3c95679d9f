package logx

// Nop returns a Logger that discards everything.
func Nop() Logger { return nop{} }

type nop struct{}

func (nop) Debug(string, ...Field) {}
func (nop) Info(string, ...Field)  {}
func (nop) Warn(string, ...Field)  {}
func (nop) Error(string, ...Field) {}
func (nop) With(...Field) Logger   { return nop{} }
func (nop) Sync() error            { return nil }
