package semlog

// noCopy makes "go vet" complain about values that must not be copied
// after first use, e.g. buffers handing out readers.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
