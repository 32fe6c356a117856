package domain

import (
	"bytes"
	"errors"
	"fmt"
	"hash/fnv"
	"net"

	"github.com/lcalzada-xor/wifitelem/internal/parcel"
)

// RangingStatus is the outcome of a single RTT ranging measurement.
type RangingStatus int32

const (
	// RangingStatusSuccess means the measurement succeeded and the
	// distance fields are valid.
	RangingStatusSuccess RangingStatus = 0
	// RangingStatusFail means the measurement failed and the distance
	// fields are invalid.
	RangingStatusFail RangingStatus = 1
	// RangingStatusNoIEEE80211mc means the peer does not support IEEE
	// 802.11mc RTT operations.
	RangingStatusNoIEEE80211mc RangingStatus = 2
)

// Unspecified marks a numeric field whose value was not reported.
const Unspecified int32 = -1

// Channel width codes for the measurement bandwidth.
const (
	ChannelWidth20MHz       int32 = 0
	ChannelWidth40MHz       int32 = 1
	ChannelWidth80MHz       int32 = 2
	ChannelWidth160MHz      int32 = 3
	ChannelWidth80MHzPlus80 int32 = 4
	ChannelWidth320MHz      int32 = 5
)

var (
	// ErrNoPeerIdentity is returned when a result is constructed with
	// neither a MAC address nor a peer handle.
	ErrNoPeerIdentity = errors.New("either MAC address or peer handle is needed")
	// ErrInvalidResult is returned by accessors that are only meaningful
	// on a successful measurement.
	ErrInvalidResult = errors.New("invoked on an invalid ranging result")
)

// PeerHandle is an opaque identifier for a Wi-Fi Aware peer, used for NAN
// ranging instead of a hardware address.
type PeerHandle struct {
	ID int32
}

// RangingResultConfig carries every field of a ranging result for
// construction. Individual fields are not validated; the single construction
// rule lives in NewRangingResult.
type RangingResultConfig struct {
	Status                    RangingStatus
	MacAddress                net.HardwareAddr
	PeerHandle                *PeerHandle
	DistanceMm                int32
	DistanceStdDevMm          int32
	Rssi                      int32
	NumAttemptedMeasurements  int32
	NumSuccessfulMeasurements int32
	Lci                       []byte
	Lcr                       []byte
	ResponderLocation         *ResponderLocation
	RangingTimestampMillis    int64
	Is80211mcMeasurement      bool
	FrequencyMHz              int32
	PacketBw                  int32
}

// DefaultRangingResultConfig returns a config with the defaults of an
// unpopulated result: failed status, no peer identity, rssi, frequency and
// bandwidth unspecified.
func DefaultRangingResultConfig() RangingResultConfig {
	return RangingResultConfig{
		Status:       RangingStatusFail,
		Rssi:         Unspecified,
		FrequencyMHz: Unspecified,
		PacketBw:     Unspecified,
	}
}

// RangingResult is the immutable outcome of a single RTT measurement against
// one peer. Fields other than the status and the peer identity are only
// meaningful when the status is RangingStatusSuccess; their accessors return
// ErrInvalidResult otherwise.
type RangingResult struct {
	status                    RangingStatus
	mac                       net.HardwareAddr
	peerHandle                *PeerHandle
	distanceMm                int32
	distanceStdDevMm          int32
	rssi                      int32
	numAttemptedMeasurements  int32
	numSuccessfulMeasurements int32
	lci                       []byte
	lcr                       []byte
	responderLocation         *ResponderLocation
	timestamp                 int64
	is80211mcMeasurement      bool
	frequencyMHz              int32
	packetBw                  int32
}

// NewRangingResult validates and builds a result. The peer must be
// identified by a MAC address or a peer handle; when both are absent
// ErrNoPeerIdentity is returned. Nil lci/lcr buffers normalize to empty
// ones, and all buffers are copied so the caller cannot mutate the result
// afterwards.
func NewRangingResult(cfg RangingResultConfig) (*RangingResult, error) {
	if len(cfg.MacAddress) == 0 && cfg.PeerHandle == nil {
		return nil, ErrNoPeerIdentity
	}
	r := &RangingResult{
		status:                    cfg.Status,
		mac:                       append(net.HardwareAddr(nil), cfg.MacAddress...),
		distanceMm:                cfg.DistanceMm,
		distanceStdDevMm:          cfg.DistanceStdDevMm,
		rssi:                      cfg.Rssi,
		numAttemptedMeasurements:  cfg.NumAttemptedMeasurements,
		numSuccessfulMeasurements: cfg.NumSuccessfulMeasurements,
		lci:                       append([]byte{}, cfg.Lci...),
		lcr:                       append([]byte{}, cfg.Lcr...),
		timestamp:                 cfg.RangingTimestampMillis,
		is80211mcMeasurement:      cfg.Is80211mcMeasurement,
		frequencyMHz:              cfg.FrequencyMHz,
		packetBw:                  cfg.PacketBw,
	}
	if cfg.PeerHandle != nil {
		ph := *cfg.PeerHandle
		r.peerHandle = &ph
	}
	if cfg.ResponderLocation != nil {
		r.responderLocation = cfg.ResponderLocation.clone()
	}
	return r, nil
}

// Status returns the measurement outcome. Always valid.
func (r *RangingResult) Status() RangingStatus { return r.status }

// MacAddress returns the MAC address of the peer, or nil for results of
// peer-handle (NAN) requests. Always valid.
func (r *RangingResult) MacAddress() net.HardwareAddr {
	if len(r.mac) == 0 {
		return nil
	}
	return append(net.HardwareAddr(nil), r.mac...)
}

// PeerHandle returns the Wi-Fi Aware peer handle, or nil for MAC-addressed
// results. Always valid.
func (r *RangingResult) PeerHandle() *PeerHandle {
	if r.peerHandle == nil {
		return nil
	}
	ph := *r.peerHandle
	return &ph
}

func (r *RangingResult) gate(accessor string) error {
	if r.status != RangingStatusSuccess {
		return fmt.Errorf("%w: %s: status=%d", ErrInvalidResult, accessor, r.status)
	}
	return nil
}

// DistanceMm returns the measured distance in millimeters. May be negative
// for very close peers.
func (r *RangingResult) DistanceMm() (int32, error) {
	if err := r.gate("DistanceMm"); err != nil {
		return 0, err
	}
	return r.distanceMm, nil
}

// DistanceStdDevMm returns the standard deviation of the measured distance,
// calculated over the measurements of a single RTT burst.
func (r *RangingResult) DistanceStdDevMm() (int32, error) {
	if err := r.gate("DistanceStdDevMm"); err != nil {
		return 0, err
	}
	return r.distanceStdDevMm, nil
}

// Rssi returns the average RSSI in dBm observed during the measurement.
func (r *RangingResult) Rssi() (int32, error) {
	if err := r.gate("Rssi"); err != nil {
		return 0, err
	}
	return r.rssi, nil
}

// NumAttemptedMeasurements returns the number of attempted measurements in
// the RTT exchange. Zero means no information, which can happen for
// one-sided measurements.
func (r *RangingResult) NumAttemptedMeasurements() (int32, error) {
	if err := r.gate("NumAttemptedMeasurements"); err != nil {
		return 0, err
	}
	return r.numAttemptedMeasurements, nil
}

// NumSuccessfulMeasurements returns the number of measurements used to
// calculate the distance and its standard deviation.
func (r *RangingResult) NumSuccessfulMeasurements() (int32, error) {
	if err := r.gate("NumSuccessfulMeasurements"); err != nil {
		return 0, err
	}
	return r.numSuccessfulMeasurements, nil
}

// Lci returns the Location Configuration Information self-reported by the
// peer (IEEE 802.11-2016 9.4.2.22.10). Never nil; the returned buffer is a
// copy. The content is not validated.
func (r *RangingResult) Lci() ([]byte, error) {
	if err := r.gate("Lci"); err != nil {
		return nil, err
	}
	return append([]byte{}, r.lci...), nil
}

// Lcr returns the Location Civic Report self-reported by the peer (IEEE
// 802.11-2016 9.4.2.22.13). Never nil; the returned buffer is a copy. The
// content is not validated.
func (r *RangingResult) Lcr() ([]byte, error) {
	if err := r.gate("Lcr"); err != nil {
		return nil, err
	}
	return append([]byte{}, r.lcr...), nil
}

// ResponderLocation returns the decoded, unverified location the responder
// broadcasts, or nil when it could not be parsed.
func (r *RangingResult) ResponderLocation() (*ResponderLocation, error) {
	if err := r.gate("ResponderLocation"); err != nil {
		return nil, err
	}
	if r.responderLocation == nil {
		return nil, nil
	}
	return r.responderLocation.clone(), nil
}

// RangingTimestampMillis returns the time the measurement was taken, in
// milliseconds since boot including sleep.
func (r *RangingResult) RangingTimestampMillis() (int64, error) {
	if err := r.gate("RangingTimestampMillis"); err != nil {
		return 0, err
	}
	return r.timestamp, nil
}

// Is80211mcMeasurement reports whether the two-sided IEEE 802.11mc protocol
// was used. A one-sided result does not subtract the responder turnaround
// time.
func (r *RangingResult) Is80211mcMeasurement() (bool, error) {
	if err := r.gate("Is80211mcMeasurement"); err != nil {
		return false, err
	}
	return r.is80211mcMeasurement, nil
}

// MeasurementChannelFrequencyMHz returns the center frequency of the primary
// 20 MHz channel the measurement frames were sent on, or Unspecified.
func (r *RangingResult) MeasurementChannelFrequencyMHz() (int32, error) {
	if err := r.gate("MeasurementChannelFrequencyMHz"); err != nil {
		return 0, err
	}
	return r.frequencyMHz, nil
}

// MeasurementBandwidth returns the ChannelWidth code of the measurement
// frames, or Unspecified.
func (r *RangingResult) MeasurementBandwidth() (int32, error) {
	if err := r.gate("MeasurementBandwidth"); err != nil {
		return 0, err
	}
	return r.packetBw, nil
}

func (r *RangingResult) encodeParcel(w *parcel.Writer) {
	w.WriteInt32(int32(r.status))
	if len(r.mac) == 0 {
		w.WriteBool(false)
	} else {
		w.WriteBool(true)
		w.WriteByteArray(r.mac)
	}
	if r.peerHandle == nil {
		w.WriteBool(false)
	} else {
		w.WriteBool(true)
		w.WriteInt32(r.peerHandle.ID)
	}
	w.WriteInt32(r.distanceMm)
	w.WriteInt32(r.distanceStdDevMm)
	w.WriteInt32(r.rssi)
	w.WriteInt32(r.numAttemptedMeasurements)
	w.WriteInt32(r.numSuccessfulMeasurements)
	w.WriteByteArray(r.lci)
	w.WriteByteArray(r.lcr)
	if r.responderLocation == nil {
		w.WriteNilParcelable()
	} else {
		w.WriteParcelable(r.responderLocation)
	}
	w.WriteInt64(r.timestamp)
	w.WriteBool(r.is80211mcMeasurement)
	w.WriteInt32(r.frequencyMHz)
	w.WriteInt32(r.packetBw)
}

func readRangingResult(r *parcel.Reader) (*RangingResult, error) {
	cfg := DefaultRangingResultConfig()
	cfg.Status = RangingStatus(r.ReadInt32())
	if r.ReadBool() {
		cfg.MacAddress = net.HardwareAddr(r.ReadByteArray())
	}
	if r.ReadBool() {
		cfg.PeerHandle = &PeerHandle{ID: r.ReadInt32()}
	}
	cfg.DistanceMm = r.ReadInt32()
	cfg.DistanceStdDevMm = r.ReadInt32()
	cfg.Rssi = r.ReadInt32()
	cfg.NumAttemptedMeasurements = r.ReadInt32()
	cfg.NumSuccessfulMeasurements = r.ReadInt32()
	cfg.Lci = r.ReadByteArray()
	cfg.Lcr = r.ReadByteArray()
	p, err := r.ReadParcelable(parcelables)
	if err != nil {
		return nil, err
	}
	if p != nil {
		cfg.ResponderLocation = p.(*ResponderLocation)
	}
	cfg.RangingTimestampMillis = r.ReadInt64()
	cfg.Is80211mcMeasurement = r.ReadBool()
	cfg.FrequencyMHz = r.ReadInt32()
	cfg.PacketBw = r.ReadInt32()
	if err := r.Err(); err != nil {
		return nil, err
	}
	// NewRangingResult re-validates the peer identity, so a stream with
	// both presence flags cleared fails the same way as a bad manual
	// construction.
	return NewRangingResult(cfg)
}

// MarshalBinary encodes the result in its fixed wire layout.
func (r *RangingResult) MarshalBinary() ([]byte, error) {
	w := parcel.NewWriter()
	r.encodeParcel(w)
	return w.Bytes(), nil
}

// DecodeRangingResult decodes a full parcel produced by MarshalBinary. The
// stream must contain exactly one result.
func DecodeRangingResult(data []byte) (*RangingResult, error) {
	rd := parcel.NewReader(data)
	res, err := readRangingResult(rd)
	if err != nil {
		return nil, err
	}
	if rd.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after ranging result", parcel.ErrMalformed, rd.Len())
	}
	return res, nil
}

// UnmarshalBinary decodes data into r, replacing its contents.
func (r *RangingResult) UnmarshalBinary(data []byte) error {
	dec, err := DecodeRangingResult(data)
	if err != nil {
		return err
	}
	*r = *dec
	return nil
}

// Equal reports field-for-field equality, comparing buffers by content and
// the responder location by its own equality.
func (r *RangingResult) Equal(o *RangingResult) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.peerHandle != nil || o.peerHandle != nil {
		if r.peerHandle == nil || o.peerHandle == nil || *r.peerHandle != *o.peerHandle {
			return false
		}
	}
	return r.status == o.status &&
		bytes.Equal(r.mac, o.mac) &&
		r.distanceMm == o.distanceMm &&
		r.distanceStdDevMm == o.distanceStdDevMm &&
		r.rssi == o.rssi &&
		r.numAttemptedMeasurements == o.numAttemptedMeasurements &&
		r.numSuccessfulMeasurements == o.numSuccessfulMeasurements &&
		bytes.Equal(r.lci, o.lci) &&
		bytes.Equal(r.lcr, o.lcr) &&
		r.responderLocation.Equal(o.responderLocation) &&
		r.timestamp == o.timestamp &&
		r.is80211mcMeasurement == o.is80211mcMeasurement &&
		r.frequencyMHz == o.frequencyMHz &&
		r.packetBw == o.packetBw
}

// Hash returns a structural hash consistent with Equal.
func (r *RangingResult) Hash() uint64 {
	b, _ := r.MarshalBinary()
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}

// String renders every field in declaration order, for diagnostics only.
func (r *RangingResult) String() string {
	mac := "<nil>"
	if len(r.mac) > 0 {
		mac = r.mac.String()
	}
	peer := "<nil>"
	if r.peerHandle != nil {
		peer = fmt.Sprintf("%d", r.peerHandle.ID)
	}
	return fmt.Sprintf("RangingResult: [status=%d, mac=%s, peerHandle=%s, distanceMm=%d,"+
		" distanceStdDevMm=%d, rssi=%d, numAttemptedMeasurements=%d,"+
		" numSuccessfulMeasurements=%d, lci=%v, lcr=%v, responderLocation=%v,"+
		" timestamp=%d, is80211mcMeasurement=%t, frequencyMHz=%d, packetBw=%d]",
		r.status, mac, peer, r.distanceMm,
		r.distanceStdDevMm, r.rssi, r.numAttemptedMeasurements,
		r.numSuccessfulMeasurements, r.lci, r.lcr, r.responderLocation,
		r.timestamp, r.is80211mcMeasurement, r.frequencyMHz, r.packetBw)
}
