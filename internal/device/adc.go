package device

// ADC reads raw conversion codes from an analog input channel.
type ADC interface {
	Read(channel int) (int, error)
	Close() error
}
