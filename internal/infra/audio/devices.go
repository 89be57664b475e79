package audio

// InputDevice describes a capture-capable device for display.
type InputDevice struct {
	Name       string
	HostAPI    string
	Channels   int
	SampleRate float64
	Default    bool
}
