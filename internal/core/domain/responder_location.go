package domain

import (
	"bytes"
	"fmt"

	"github.com/lcalzada-xor/wifitelem/internal/parcel"
)

const responderLocationParcelType = "ResponderLocation"

// parcelables resolves the nested object tags this package can decode.
var parcelables = parcel.Registry{
	responderLocationParcelType: decodeResponderLocation,
}

// ResponderLocation is the decoded, self-reported location of a ranging
// responder: the subject coordinates from its LCI element plus the raw civic
// report. The data comes straight from the access point's configuration and
// is not verified.
type ResponderLocation struct {
	Latitude             float64
	Longitude            float64
	Altitude             float64
	LatitudeUncertainty  float64
	LongitudeUncertainty float64
	AltitudeUncertainty  float64
	LciValid             bool
	CivicReport          []byte
}

// ParcelType implements parcel.Parcelable.
func (l *ResponderLocation) ParcelType() string {
	return responderLocationParcelType
}

// EncodeParcel implements parcel.Parcelable.
func (l *ResponderLocation) EncodeParcel(w *parcel.Writer) {
	w.WriteFloat64(l.Latitude)
	w.WriteFloat64(l.Longitude)
	w.WriteFloat64(l.Altitude)
	w.WriteFloat64(l.LatitudeUncertainty)
	w.WriteFloat64(l.LongitudeUncertainty)
	w.WriteFloat64(l.AltitudeUncertainty)
	w.WriteBool(l.LciValid)
	w.WriteByteArray(l.CivicReport)
}

func decodeResponderLocation(r *parcel.Reader) (parcel.Parcelable, error) {
	l := &ResponderLocation{
		Latitude:             r.ReadFloat64(),
		Longitude:            r.ReadFloat64(),
		Altitude:             r.ReadFloat64(),
		LatitudeUncertainty:  r.ReadFloat64(),
		LongitudeUncertainty: r.ReadFloat64(),
		AltitudeUncertainty:  r.ReadFloat64(),
		LciValid:             r.ReadBool(),
		CivicReport:          r.ReadByteArray(),
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return l, nil
}

// Equal reports content equality. Both receivers may be nil.
func (l *ResponderLocation) Equal(o *ResponderLocation) bool {
	if l == nil || o == nil {
		return l == o
	}
	return l.Latitude == o.Latitude &&
		l.Longitude == o.Longitude &&
		l.Altitude == o.Altitude &&
		l.LatitudeUncertainty == o.LatitudeUncertainty &&
		l.LongitudeUncertainty == o.LongitudeUncertainty &&
		l.AltitudeUncertainty == o.AltitudeUncertainty &&
		l.LciValid == o.LciValid &&
		bytes.Equal(l.CivicReport, o.CivicReport)
}

func (l *ResponderLocation) clone() *ResponderLocation {
	c := *l
	c.CivicReport = append([]byte(nil), l.CivicReport...)
	return &c
}

func (l *ResponderLocation) String() string {
	if l == nil {
		return "<nil>"
	}
	return fmt.Sprintf("ResponderLocation: [lat=%v, lng=%v, alt=%v, lciValid=%t, civicReport=%v]",
		l.Latitude, l.Longitude, l.Altitude, l.LciValid, l.CivicReport)
}
