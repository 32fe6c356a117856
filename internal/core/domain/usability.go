package domain

import (
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/lcalzada-xor/wifitelem/internal/parcel"
)

// AccessCategory identifies one of the four WME/802.11e traffic classes used
// to bucket contention-time statistics.
type AccessCategory int32

const (
	AccessCategoryBE AccessCategory = 0 // Best-Effort
	AccessCategoryBK AccessCategory = 1 // Background
	AccessCategoryVI AccessCategory = 2 // Video
	AccessCategoryVO AccessCategory = 3 // Voice

	numAccessCategories = 4
)

// Probe status relative to the last stats update.
const (
	ProbeStatusUnknown int32 = 0
	ProbeStatusNoProbe int32 = 1
	ProbeStatusSuccess int32 = 2
	ProbeStatusFailure int32 = 3
)

// ErrDutyCycleUnavailable is returned when the duty cycle was never
// populated with a valid percentage.
var ErrDutyCycleUnavailable = errors.New("time slice duty cycle not available")

// ContentionTimeStats holds the medium contention timing observed for a
// single access category. Times are in microseconds.
type ContentionTimeStats struct {
	MinMicros  int64
	MaxMicros  int64
	AvgMicros  int64
	NumSamples int64
}

func (c ContentionTimeStats) encodeParcel(w *parcel.Writer) {
	w.WriteInt64(c.MinMicros)
	w.WriteInt64(c.MaxMicros)
	w.WriteInt64(c.AvgMicros)
	w.WriteInt64(c.NumSamples)
}

func readContentionTimeStats(r *parcel.Reader) ContentionTimeStats {
	return ContentionTimeStats{
		MinMicros:  r.ReadInt64(),
		MaxMicros:  r.ReadInt64(),
		AvgMicros:  r.ReadInt64(),
		NumSamples: r.ReadInt64(),
	}
}

// UsabilityStatsEntryFields carries every field of a stats snapshot, in
// declaration order, for construction. Counters may wrap at large values;
// no validation happens at construction time.
type UsabilityStatsEntryFields struct {
	TimeStampMillis                       int64
	Rssi                                  int32
	LinkSpeedMbps                         int32
	TotalTxSuccess                        int64
	TotalTxRetries                        int64
	TotalTxBad                            int64
	TotalRxSuccess                        int64
	TotalRadioOnTimeMillis                int64
	TotalRadioTxTimeMillis                int64
	TotalRadioRxTimeMillis                int64
	TotalScanTimeMillis                   int64
	TotalNanScanTimeMillis                int64
	TotalBackgroundScanTimeMillis         int64
	TotalRoamScanTimeMillis               int64
	TotalPnoScanTimeMillis                int64
	TotalHotspot2ScanTimeMillis           int64
	TotalCcaBusyFreqTimeMillis            int64
	TotalRadioOnFreqTimeMillis            int64
	TotalBeaconRx                         int64
	ProbeStatusSinceLastUpdate            int32
	ProbeElapsedTimeSinceLastUpdateMillis int32
	ProbeMcsRateSinceLastUpdate           int32
	RxLinkSpeedMbps                       int32
	TimeSliceDutyCycleInPercent           int32
	ContentionTimeStats                   [numAccessCategories]ContentionTimeStats
	CellularDataNetworkType               int32
	CellularSignalStrengthDbm             int32
	CellularSignalStrengthDb              int32
	IsSameRegisteredCell                  bool
}

// UsabilityStatsEntry is an immutable snapshot of link usability counters
// taken at a single point in time. Construct one with
// NewUsabilityStatsEntry; the internal state cannot be mutated afterwards.
type UsabilityStatsEntry struct {
	fields UsabilityStatsEntryFields
}

// NewUsabilityStatsEntry builds an entry from a full set of fields. Invalid
// values (for example a duty cycle of -1 meaning "unknown") are stored
// as-is and surface through the corresponding accessor.
func NewUsabilityStatsEntry(f UsabilityStatsEntryFields) *UsabilityStatsEntry {
	return &UsabilityStatsEntry{fields: f}
}

// TimeStampMillis returns the snapshot time in milliseconds since boot.
func (e *UsabilityStatsEntry) TimeStampMillis() int64 { return e.fields.TimeStampMillis }

// Rssi returns the signal strength in dBm.
func (e *UsabilityStatsEntry) Rssi() int32 { return e.fields.Rssi }

// LinkSpeedMbps returns the tx link speed in Mbps.
func (e *UsabilityStatsEntry) LinkSpeedMbps() int32 { return e.fields.LinkSpeedMbps }

func (e *UsabilityStatsEntry) TotalTxSuccess() int64 { return e.fields.TotalTxSuccess }
func (e *UsabilityStatsEntry) TotalTxRetries() int64 { return e.fields.TotalTxRetries }
func (e *UsabilityStatsEntry) TotalTxBad() int64     { return e.fields.TotalTxBad }
func (e *UsabilityStatsEntry) TotalRxSuccess() int64 { return e.fields.TotalRxSuccess }

func (e *UsabilityStatsEntry) TotalRadioOnTimeMillis() int64 { return e.fields.TotalRadioOnTimeMillis }
func (e *UsabilityStatsEntry) TotalRadioTxTimeMillis() int64 { return e.fields.TotalRadioTxTimeMillis }
func (e *UsabilityStatsEntry) TotalRadioRxTimeMillis() int64 { return e.fields.TotalRadioRxTimeMillis }
func (e *UsabilityStatsEntry) TotalScanTimeMillis() int64    { return e.fields.TotalScanTimeMillis }

func (e *UsabilityStatsEntry) TotalNanScanTimeMillis() int64 { return e.fields.TotalNanScanTimeMillis }

func (e *UsabilityStatsEntry) TotalBackgroundScanTimeMillis() int64 {
	return e.fields.TotalBackgroundScanTimeMillis
}

func (e *UsabilityStatsEntry) TotalRoamScanTimeMillis() int64 {
	return e.fields.TotalRoamScanTimeMillis
}

func (e *UsabilityStatsEntry) TotalPnoScanTimeMillis() int64 { return e.fields.TotalPnoScanTimeMillis }

func (e *UsabilityStatsEntry) TotalHotspot2ScanTimeMillis() int64 {
	return e.fields.TotalHotspot2ScanTimeMillis
}

func (e *UsabilityStatsEntry) TotalCcaBusyFreqTimeMillis() int64 {
	return e.fields.TotalCcaBusyFreqTimeMillis
}

func (e *UsabilityStatsEntry) TotalRadioOnFreqTimeMillis() int64 {
	return e.fields.TotalRadioOnFreqTimeMillis
}

func (e *UsabilityStatsEntry) TotalBeaconRx() int64 { return e.fields.TotalBeaconRx }

func (e *UsabilityStatsEntry) ProbeStatusSinceLastUpdate() int32 {
	return e.fields.ProbeStatusSinceLastUpdate
}

func (e *UsabilityStatsEntry) ProbeElapsedTimeSinceLastUpdateMillis() int32 {
	return e.fields.ProbeElapsedTimeSinceLastUpdateMillis
}

func (e *UsabilityStatsEntry) ProbeMcsRateSinceLastUpdate() int32 {
	return e.fields.ProbeMcsRateSinceLastUpdate
}

func (e *UsabilityStatsEntry) RxLinkSpeedMbps() int32 { return e.fields.RxLinkSpeedMbps }

// TimeSliceDutyCycleInPercent returns the duty cycle assigned to this device
// when the radio is in time slicing mode. The stored value is only
// meaningful in [0,100]; anything else means it was never populated and
// ErrDutyCycleUnavailable is returned.
func (e *UsabilityStatsEntry) TimeSliceDutyCycleInPercent() (int32, error) {
	v := e.fields.TimeSliceDutyCycleInPercent
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("%w: stored value %d", ErrDutyCycleUnavailable, v)
	}
	return v, nil
}

// ContentionTimeStats returns the contention stats observed for the given
// access category. The zero value is returned for a category outside the
// four WME classes.
func (e *UsabilityStatsEntry) ContentionTimeStats(ac AccessCategory) ContentionTimeStats {
	if ac < AccessCategoryBE || ac > AccessCategoryVO {
		return ContentionTimeStats{}
	}
	return e.fields.ContentionTimeStats[ac]
}

func (e *UsabilityStatsEntry) CellularDataNetworkType() int32 {
	return e.fields.CellularDataNetworkType
}

func (e *UsabilityStatsEntry) CellularSignalStrengthDbm() int32 {
	return e.fields.CellularSignalStrengthDbm
}

func (e *UsabilityStatsEntry) CellularSignalStrengthDb() int32 {
	return e.fields.CellularSignalStrengthDb
}

func (e *UsabilityStatsEntry) IsSameRegisteredCell() bool { return e.fields.IsSameRegisteredCell }

func (e *UsabilityStatsEntry) encodeParcel(w *parcel.Writer) {
	f := &e.fields
	w.WriteInt64(f.TimeStampMillis)
	w.WriteInt32(f.Rssi)
	w.WriteInt32(f.LinkSpeedMbps)
	w.WriteInt64(f.TotalTxSuccess)
	w.WriteInt64(f.TotalTxRetries)
	w.WriteInt64(f.TotalTxBad)
	w.WriteInt64(f.TotalRxSuccess)
	w.WriteInt64(f.TotalRadioOnTimeMillis)
	w.WriteInt64(f.TotalRadioTxTimeMillis)
	w.WriteInt64(f.TotalRadioRxTimeMillis)
	w.WriteInt64(f.TotalScanTimeMillis)
	w.WriteInt64(f.TotalNanScanTimeMillis)
	w.WriteInt64(f.TotalBackgroundScanTimeMillis)
	w.WriteInt64(f.TotalRoamScanTimeMillis)
	w.WriteInt64(f.TotalPnoScanTimeMillis)
	w.WriteInt64(f.TotalHotspot2ScanTimeMillis)
	w.WriteInt64(f.TotalCcaBusyFreqTimeMillis)
	w.WriteInt64(f.TotalRadioOnFreqTimeMillis)
	w.WriteInt64(f.TotalBeaconRx)
	w.WriteInt32(f.ProbeStatusSinceLastUpdate)
	w.WriteInt32(f.ProbeElapsedTimeSinceLastUpdateMillis)
	w.WriteInt32(f.ProbeMcsRateSinceLastUpdate)
	w.WriteInt32(f.RxLinkSpeedMbps)
	w.WriteInt32(f.TimeSliceDutyCycleInPercent)
	// Fixed-size array, category order BE,BK,VI,VO; both sides know the
	// length so there is no prefix.
	for _, cts := range f.ContentionTimeStats {
		cts.encodeParcel(w)
	}
	w.WriteInt32(f.CellularDataNetworkType)
	w.WriteInt32(f.CellularSignalStrengthDbm)
	w.WriteInt32(f.CellularSignalStrengthDb)
	w.WriteBool(f.IsSameRegisteredCell)
}

func readUsabilityStatsEntry(r *parcel.Reader) (*UsabilityStatsEntry, error) {
	var f UsabilityStatsEntryFields
	f.TimeStampMillis = r.ReadInt64()
	f.Rssi = r.ReadInt32()
	f.LinkSpeedMbps = r.ReadInt32()
	f.TotalTxSuccess = r.ReadInt64()
	f.TotalTxRetries = r.ReadInt64()
	f.TotalTxBad = r.ReadInt64()
	f.TotalRxSuccess = r.ReadInt64()
	f.TotalRadioOnTimeMillis = r.ReadInt64()
	f.TotalRadioTxTimeMillis = r.ReadInt64()
	f.TotalRadioRxTimeMillis = r.ReadInt64()
	f.TotalScanTimeMillis = r.ReadInt64()
	f.TotalNanScanTimeMillis = r.ReadInt64()
	f.TotalBackgroundScanTimeMillis = r.ReadInt64()
	f.TotalRoamScanTimeMillis = r.ReadInt64()
	f.TotalPnoScanTimeMillis = r.ReadInt64()
	f.TotalHotspot2ScanTimeMillis = r.ReadInt64()
	f.TotalCcaBusyFreqTimeMillis = r.ReadInt64()
	f.TotalRadioOnFreqTimeMillis = r.ReadInt64()
	f.TotalBeaconRx = r.ReadInt64()
	f.ProbeStatusSinceLastUpdate = r.ReadInt32()
	f.ProbeElapsedTimeSinceLastUpdateMillis = r.ReadInt32()
	f.ProbeMcsRateSinceLastUpdate = r.ReadInt32()
	f.RxLinkSpeedMbps = r.ReadInt32()
	f.TimeSliceDutyCycleInPercent = r.ReadInt32()
	for i := range f.ContentionTimeStats {
		f.ContentionTimeStats[i] = readContentionTimeStats(r)
	}
	f.CellularDataNetworkType = r.ReadInt32()
	f.CellularSignalStrengthDbm = r.ReadInt32()
	f.CellularSignalStrengthDb = r.ReadInt32()
	f.IsSameRegisteredCell = r.ReadBool()
	if err := r.Err(); err != nil {
		return nil, err
	}
	return NewUsabilityStatsEntry(f), nil
}

// MarshalBinary encodes the entry in its fixed wire layout.
func (e *UsabilityStatsEntry) MarshalBinary() ([]byte, error) {
	w := parcel.NewWriter()
	e.encodeParcel(w)
	return w.Bytes(), nil
}

// DecodeUsabilityStatsEntry decodes a full parcel produced by
// MarshalBinary. The stream must contain exactly one entry.
func DecodeUsabilityStatsEntry(data []byte) (*UsabilityStatsEntry, error) {
	r := parcel.NewReader(data)
	e, err := readUsabilityStatsEntry(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after stats entry", parcel.ErrMalformed, r.Len())
	}
	return e, nil
}

// UnmarshalBinary decodes data into e, replacing its contents.
func (e *UsabilityStatsEntry) UnmarshalBinary(data []byte) error {
	dec, err := DecodeUsabilityStatsEntry(data)
	if err != nil {
		return err
	}
	*e = *dec
	return nil
}

// Equal reports field-for-field equality.
func (e *UsabilityStatsEntry) Equal(o *UsabilityStatsEntry) bool {
	if e == nil || o == nil {
		return e == o
	}
	return e.fields == o.fields
}

// Hash returns a structural hash consistent with Equal.
func (e *UsabilityStatsEntry) Hash() uint64 {
	b, _ := e.MarshalBinary()
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}

// String renders every field in declaration order, for diagnostics only.
func (e *UsabilityStatsEntry) String() string {
	f := &e.fields
	return fmt.Sprintf("UsabilityStatsEntry: [timeStampMillis=%d, rssi=%d, linkSpeedMbps=%d,"+
		" totalTxSuccess=%d, totalTxRetries=%d, totalTxBad=%d, totalRxSuccess=%d,"+
		" totalRadioOnTimeMillis=%d, totalRadioTxTimeMillis=%d, totalRadioRxTimeMillis=%d,"+
		" totalScanTimeMillis=%d, totalNanScanTimeMillis=%d, totalBackgroundScanTimeMillis=%d,"+
		" totalRoamScanTimeMillis=%d, totalPnoScanTimeMillis=%d, totalHotspot2ScanTimeMillis=%d,"+
		" totalCcaBusyFreqTimeMillis=%d, totalRadioOnFreqTimeMillis=%d, totalBeaconRx=%d,"+
		" probeStatusSinceLastUpdate=%d, probeElapsedTimeSinceLastUpdateMillis=%d,"+
		" probeMcsRateSinceLastUpdate=%d, rxLinkSpeedMbps=%d, timeSliceDutyCycleInPercent=%d,"+
		" contentionTimeStats=%v, cellularDataNetworkType=%d, cellularSignalStrengthDbm=%d,"+
		" cellularSignalStrengthDb=%d, isSameRegisteredCell=%t]",
		f.TimeStampMillis, f.Rssi, f.LinkSpeedMbps,
		f.TotalTxSuccess, f.TotalTxRetries, f.TotalTxBad, f.TotalRxSuccess,
		f.TotalRadioOnTimeMillis, f.TotalRadioTxTimeMillis, f.TotalRadioRxTimeMillis,
		f.TotalScanTimeMillis, f.TotalNanScanTimeMillis, f.TotalBackgroundScanTimeMillis,
		f.TotalRoamScanTimeMillis, f.TotalPnoScanTimeMillis, f.TotalHotspot2ScanTimeMillis,
		f.TotalCcaBusyFreqTimeMillis, f.TotalRadioOnFreqTimeMillis, f.TotalBeaconRx,
		f.ProbeStatusSinceLastUpdate, f.ProbeElapsedTimeSinceLastUpdateMillis,
		f.ProbeMcsRateSinceLastUpdate, f.RxLinkSpeedMbps, f.TimeSliceDutyCycleInPercent,
		f.ContentionTimeStats, f.CellularDataNetworkType, f.CellularSignalStrengthDbm,
		f.CellularSignalStrengthDb, f.IsSameRegisteredCell)
}
