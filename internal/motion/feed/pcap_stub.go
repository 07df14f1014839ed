//go:build !pcap
// +build !pcap

package feed

import (
	"context"
	"fmt"
)

// ReplayPCAP reports that PCAP replay is unavailable in this build.
func ReplayPCAP(ctx context.Context, pcapFile string, udpPort int, sink FrameSink, stats StatsInterface) error {
	return fmt.Errorf("pcap replay disabled in this build, rebuild with -tags=pcap")
}
