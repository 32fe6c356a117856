// Package mock produces deterministic pseudo-random telemetry records for
// tests and for the inspector's sample mode.
package mock

import (
	"math/rand"
	"net"

	"github.com/lcalzada-xor/wifitelem/internal/core/domain"
)

// Generator emits random but well-formed records. The same seed yields the
// same sequence.
type Generator struct {
	rnd *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

func (g *Generator) counter() int64 {
	return g.rnd.Int63n(1 << 40)
}

func (g *Generator) contentionTimeStats() domain.ContentionTimeStats {
	min := g.rnd.Int63n(5000)
	return domain.ContentionTimeStats{
		MinMicros:  min,
		MaxMicros:  min + g.rnd.Int63n(50000),
		AvgMicros:  min + g.rnd.Int63n(10000),
		NumSamples: g.rnd.Int63n(10000),
	}
}

// UsabilityStatsEntry returns a random stats snapshot. Roughly one in five
// entries carries the -1 "duty cycle unknown" sentinel.
func (g *Generator) UsabilityStatsEntry() *domain.UsabilityStatsEntry {
	dutyCycle := int32(g.rnd.Intn(101))
	if g.rnd.Intn(5) == 0 {
		dutyCycle = -1
	}
	f := domain.UsabilityStatsEntryFields{
		TimeStampMillis:                       g.counter(),
		Rssi:                                  int32(-30 - g.rnd.Intn(60)),
		LinkSpeedMbps:                         int32(g.rnd.Intn(866) + 1),
		TotalTxSuccess:                        g.counter(),
		TotalTxRetries:                        g.counter(),
		TotalTxBad:                            g.counter(),
		TotalRxSuccess:                        g.counter(),
		TotalRadioOnTimeMillis:                g.counter(),
		TotalRadioTxTimeMillis:                g.counter(),
		TotalRadioRxTimeMillis:                g.counter(),
		TotalScanTimeMillis:                   g.counter(),
		TotalNanScanTimeMillis:                g.counter(),
		TotalBackgroundScanTimeMillis:         g.counter(),
		TotalRoamScanTimeMillis:               g.counter(),
		TotalPnoScanTimeMillis:                g.counter(),
		TotalHotspot2ScanTimeMillis:           g.counter(),
		TotalCcaBusyFreqTimeMillis:            g.counter(),
		TotalRadioOnFreqTimeMillis:            g.counter(),
		TotalBeaconRx:                         g.counter(),
		ProbeStatusSinceLastUpdate:            int32(g.rnd.Intn(4)),
		ProbeElapsedTimeSinceLastUpdateMillis: int32(g.rnd.Intn(60000)),
		ProbeMcsRateSinceLastUpdate:           int32(g.rnd.Intn(12)),
		RxLinkSpeedMbps:                       int32(g.rnd.Intn(866) + 1),
		TimeSliceDutyCycleInPercent:           dutyCycle,
		CellularDataNetworkType:               int32(g.rnd.Intn(20)),
		CellularSignalStrengthDbm:             int32(-50 - g.rnd.Intn(70)),
		CellularSignalStrengthDb:              int32(-g.rnd.Intn(30)),
		IsSameRegisteredCell:                  g.rnd.Intn(2) == 0,
	}
	for i := range f.ContentionTimeStats {
		f.ContentionTimeStats[i] = g.contentionTimeStats()
	}
	return domain.NewUsabilityStatsEntry(f)
}

// MacAddress returns a random locally-administered unicast MAC.
func (g *Generator) MacAddress() net.HardwareAddr {
	mac := make(net.HardwareAddr, 6)
	g.rnd.Read(mac)
	mac[0] = (mac[0] | 0x02) &^ 0x01
	return mac
}

func (g *Generator) byteBuffer(maxLen int) []byte {
	if g.rnd.Intn(4) == 0 {
		return nil
	}
	b := make([]byte, g.rnd.Intn(maxLen))
	g.rnd.Read(b)
	return b
}

// RangingResult returns a random result. Identity alternates between MAC
// address, peer handle and both; about one in four measurements fails.
func (g *Generator) RangingResult() *domain.RangingResult {
	cfg := domain.DefaultRangingResultConfig()
	switch g.rnd.Intn(3) {
	case 0:
		cfg.MacAddress = g.MacAddress()
	case 1:
		cfg.PeerHandle = &domain.PeerHandle{ID: int32(g.rnd.Intn(1 << 16))}
	default:
		cfg.MacAddress = g.MacAddress()
		cfg.PeerHandle = &domain.PeerHandle{ID: int32(g.rnd.Intn(1 << 16))}
	}
	if g.rnd.Intn(4) != 0 {
		cfg.Status = domain.RangingStatusSuccess
		cfg.DistanceMm = int32(g.rnd.Intn(100000))
		cfg.DistanceStdDevMm = int32(g.rnd.Intn(2000))
		cfg.Rssi = int32(-30 - g.rnd.Intn(60))
		cfg.NumAttemptedMeasurements = int32(g.rnd.Intn(16) + 1)
		cfg.NumSuccessfulMeasurements = cfg.NumAttemptedMeasurements - int32(g.rnd.Intn(2))
		cfg.Lci = g.byteBuffer(64)
		cfg.Lcr = g.byteBuffer(64)
		cfg.RangingTimestampMillis = g.counter()
		cfg.Is80211mcMeasurement = g.rnd.Intn(2) == 0
		cfg.FrequencyMHz = []int32{2412, 2437, 2462, 5180, 5500, 5745}[g.rnd.Intn(6)]
		cfg.PacketBw = int32(g.rnd.Intn(6))
		if g.rnd.Intn(2) == 0 {
			cfg.ResponderLocation = g.responderLocation()
		}
	}
	res, err := domain.NewRangingResult(cfg)
	if err != nil {
		// Unreachable: an identity is always set above.
		panic(err)
	}
	return res
}

func (g *Generator) responderLocation() *domain.ResponderLocation {
	return &domain.ResponderLocation{
		Latitude:             g.rnd.Float64()*180 - 90,
		Longitude:            g.rnd.Float64()*360 - 180,
		Altitude:             g.rnd.Float64() * 100,
		LatitudeUncertainty:  g.rnd.Float64(),
		LongitudeUncertainty: g.rnd.Float64(),
		AltitudeUncertainty:  g.rnd.Float64() * 10,
		LciValid:             true,
		CivicReport:          g.byteBuffer(32),
	}
}
