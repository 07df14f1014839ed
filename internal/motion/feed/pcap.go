//go:build pcap
// +build pcap

package feed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

// ReplayPCAP reads captured landmark datagrams from a PCAP file and
// delivers decoded frames to sink in capture order. Requires the
// 'pcap' build tag.
func ReplayPCAP(ctx context.Context, pcapFile string, udpPort int, sink FrameSink, stats StatsInterface) error {
	if stats == nil {
		stats = &noopStats{}
	}

	handle, err := pcap.OpenOffline(pcapFile)
	if err != nil {
		return fmt.Errorf("open pcap %s: %w", pcapFile, err)
	}
	defer handle.Close()

	// Only replay UDP packets on the landmark feed port.
	filterStr := fmt.Sprintf("udp port %d", udpPort)
	if err := handle.SetBPFFilter(filterStr); err != nil {
		return fmt.Errorf("set bpf filter %q: %w", filterStr, err)
	}

	packetSource := gopacket.NewPacketSource(handle, handle.LinkType())
	packetCount := 0
	frameCount := 0
	startTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			log.Printf("PCAP replay canceled after %d packets", packetCount)
			return ctx.Err()
		case packet := <-packetSource.Packets():
			if packet == nil {
				// Packets closes its channel at end of file.
				log.Printf("PCAP replay complete: %d packets, %d frames in %v",
					packetCount, frameCount, time.Since(startTime))
				return nil
			}
			packetCount++

			udp, ok := packet.Layer(layers.LayerTypeUDP).(*layers.UDP)
			if !ok || len(udp.Payload) == 0 {
				continue
			}

			stats.AddDatagram(len(udp.Payload))
			frame, err := DecodeFrame(udp.Payload)
			if err != nil {
				stats.AddDropped()
				log.Printf("Error decoding PCAP packet %d: %v", packetCount, err)
				continue
			}
			stats.AddFrame()
			frameCount++

			if err := sink.HandleFrame(frame); err != nil {
				return fmt.Errorf("frame %d: %w", frame.FrameIndex, err)
			}

			if frameCount%1000 == 0 {
				elapsed := time.Since(startTime)
				log.Printf("PCAP progress: %d frames in %v (%.0f frames/s)",
					frameCount, elapsed, float64(frameCount)/elapsed.Seconds())
			}
		}
	}
}
