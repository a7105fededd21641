package series

// Column names written by the client workers.
const (
	ColTimestamp = "timestamp"
	ColActive    = "active"
	ColFailed    = "failed"
	ColTxPixels  = "tx_pixels"
	ColTxPPS     = "tx_pps"
	ColRxDgramS  = "rx_dgram_s"
	ColRxMbps    = "rx_mbps"
)

// Column names written by the server metrics collector.
const (
	ColUDPInDgrams     = "udp_in_dgrams"
	ColUDPOutDgrams    = "udp_out_dgrams"
	ColUDPRcvbufErrors = "udp_rcvbuf_errors"
	ColUDPSndbufErrors = "udp_sndbuf_errors"
	ColCPUUser         = "cpu_user"
	ColCPUNice         = "cpu_nice"
	ColCPUSystem       = "cpu_system"
	ColCPUIdle         = "cpu_idle"
	ColCPUIOWait       = "cpu_iowait"
	ColCPUIRQ          = "cpu_irq"
	ColCPUSoftIRQ      = "cpu_softirq"
	ColServerRSSKB     = "server_rss_kb"
	ColNetRxBytes      = "net_rx_bytes"
	ColNetTxBytes      = "net_tx_bytes"
	ColNetRxPackets    = "net_rx_packets"
	ColNetTxPackets    = "net_tx_packets"
)

// ColElapsed is the derived seconds-since-run-start axis.
const ColElapsed = "elapsed_s"

// RateSuffix is appended to a cumulative counter's name to name its
// per-interval rate column (tx_pixels -> tx_pixels_s).
const RateSuffix = "_s"

// RateColumn returns the derived rate column name for a cumulative counter.
func RateColumn(counter string) string {
	return counter + RateSuffix
}
