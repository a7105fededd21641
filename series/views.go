package series

// TxSource says which column backs the outbound throughput curve. It is
// resolved once, when the client view is built.
type TxSource int

const (
	// TxNone means neither a sampled nor a derivable transmit rate exists.
	TxNone TxSource = iota
	// TxSampled is the tx_pps rate the workers report directly.
	TxSampled
	// TxDerived is tx_pixels_s, computed from the cumulative tx_pixels counter.
	TxDerived
)

// Column returns the frame column the variant reads.
func (t TxSource) Column() string {
	switch t {
	case TxSampled:
		return ColTxPPS
	case TxDerived:
		return RateColumn(ColTxPixels)
	default:
		return ""
	}
}

func (t TxSource) String() string {
	switch t {
	case TxSampled:
		return "sampled"
	case TxDerived:
		return "derived"
	default:
		return "none"
	}
}

// ClientFrame is the typed view of an aggregated client Frame. Optional
// metrics are nil when no worker reported them.
type ClientFrame struct {
	Frame   *Frame
	Elapsed []float64

	Active   []float64
	Failed   []float64
	Tx       []float64
	TxSource TxSource
	RxDgram  []float64
	RxMbps   []float64
}

// NewClientFrame resolves the client metrics present in f.
func NewClientFrame(f *Frame) *ClientFrame {
	cf := &ClientFrame{
		Frame:   f,
		Elapsed: f.Elapsed,
		Active:  f.optional(ColActive),
		Failed:  f.optional(ColFailed),
		RxDgram: f.optional(ColRxDgramS),
		RxMbps:  f.optional(ColRxMbps),
	}
	for _, src := range []TxSource{TxSampled, TxDerived} {
		if col := f.optional(src.Column()); col != nil {
			cf.Tx, cf.TxSource = col, src
			break
		}
	}
	return cf
}

// Len returns the number of rows.
func (c *ClientFrame) Len() int {
	return len(c.Elapsed)
}

// Duration returns the elapsed seconds covered by the frame.
func (c *ClientFrame) Duration() float64 {
	return Max(c.Elapsed)
}

// CPUCounters holds the seven jiffie counters of /proc/stat. A nil slice
// means the counter was not collected.
type CPUCounters struct {
	User    []float64
	Nice    []float64
	System  []float64
	Idle    []float64
	IOWait  []float64
	IRQ     []float64
	SoftIRQ []float64
}

// All returns the counters in /proc/stat order.
func (c CPUCounters) All() [][]float64 {
	return [][]float64{c.User, c.Nice, c.System, c.Idle, c.IOWait, c.IRQ, c.SoftIRQ}
}

// Present reports whether at least one counter was collected.
func (c CPUCounters) Present() bool {
	for _, col := range c.All() {
		if col != nil {
			return true
		}
	}
	return false
}

// ServerFrame is the typed view of the aggregated server Frame.
type ServerFrame struct {
	Frame   *Frame
	Elapsed []float64

	UDPIn        []float64
	UDPOut       []float64
	RcvbufErrors []float64
	SndbufErrors []float64

	CPU CPUCounters

	RSSKB []float64

	NetRxBytes   []float64
	NetTxBytes   []float64
	NetRxPackets []float64
	NetTxPackets []float64
}

// NewServerFrame resolves the server metrics present in f.
func NewServerFrame(f *Frame) *ServerFrame {
	return &ServerFrame{
		Frame:        f,
		Elapsed:      f.Elapsed,
		UDPIn:        f.optional(ColUDPInDgrams),
		UDPOut:       f.optional(ColUDPOutDgrams),
		RcvbufErrors: f.optional(ColUDPRcvbufErrors),
		SndbufErrors: f.optional(ColUDPSndbufErrors),
		CPU: CPUCounters{
			User:    f.optional(ColCPUUser),
			Nice:    f.optional(ColCPUNice),
			System:  f.optional(ColCPUSystem),
			Idle:    f.optional(ColCPUIdle),
			IOWait:  f.optional(ColCPUIOWait),
			IRQ:     f.optional(ColCPUIRQ),
			SoftIRQ: f.optional(ColCPUSoftIRQ),
		},
		RSSKB:        f.optional(ColServerRSSKB),
		NetRxBytes:   f.optional(ColNetRxBytes),
		NetTxBytes:   f.optional(ColNetTxBytes),
		NetRxPackets: f.optional(ColNetRxPackets),
		NetTxPackets: f.optional(ColNetTxPackets),
	}
}

// Len returns the number of rows.
func (s *ServerFrame) Len() int {
	return len(s.Elapsed)
}

// HasBufferErrors reports whether any receive- or send-buffer error was
// counted anywhere in the run.
func (s *ServerFrame) HasBufferErrors() bool {
	return AnyNonZero(s.RcvbufErrors) || AnyNonZero(s.SndbufErrors)
}
