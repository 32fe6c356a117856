package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/wifitelem/internal/parcel"
)

// testEntryFields fills every field with the sequence used across the
// suite: scalars 0..22 in declaration order, the given duty cycle, the four
// contention blocks 1..16 and the cellular tail 23,24,25,true.
func testEntryFields(dutyCycle int32) UsabilityStatsEntryFields {
	return UsabilityStatsEntryFields{
		TimeStampMillis:                       0,
		Rssi:                                  1,
		LinkSpeedMbps:                         2,
		TotalTxSuccess:                        3,
		TotalTxRetries:                        4,
		TotalTxBad:                            5,
		TotalRxSuccess:                        6,
		TotalRadioOnTimeMillis:                7,
		TotalRadioTxTimeMillis:                8,
		TotalRadioRxTimeMillis:                9,
		TotalScanTimeMillis:                   10,
		TotalNanScanTimeMillis:                11,
		TotalBackgroundScanTimeMillis:         12,
		TotalRoamScanTimeMillis:               13,
		TotalPnoScanTimeMillis:                14,
		TotalHotspot2ScanTimeMillis:           15,
		TotalCcaBusyFreqTimeMillis:            16,
		TotalRadioOnFreqTimeMillis:            17,
		TotalBeaconRx:                         18,
		ProbeStatusSinceLastUpdate:            19,
		ProbeElapsedTimeSinceLastUpdateMillis: 20,
		ProbeMcsRateSinceLastUpdate:           21,
		RxLinkSpeedMbps:                       22,
		TimeSliceDutyCycleInPercent:           dutyCycle,
		ContentionTimeStats: [4]ContentionTimeStats{
			{MinMicros: 1, MaxMicros: 2, AvgMicros: 3, NumSamples: 4},
			{MinMicros: 5, MaxMicros: 6, AvgMicros: 7, NumSamples: 8},
			{MinMicros: 9, MaxMicros: 10, AvgMicros: 11, NumSamples: 12},
			{MinMicros: 13, MaxMicros: 14, AvgMicros: 15, NumSamples: 16},
		},
		CellularDataNetworkType:   23,
		CellularSignalStrengthDbm: 24,
		CellularSignalStrengthDb:  25,
		IsSameRegisteredCell:      true,
	}
}

func assertEntriesMatch(t *testing.T, expected, actual *UsabilityStatsEntry) {
	t.Helper()
	assert.Equal(t, expected.TimeStampMillis(), actual.TimeStampMillis())
	assert.Equal(t, expected.Rssi(), actual.Rssi())
	assert.Equal(t, expected.LinkSpeedMbps(), actual.LinkSpeedMbps())
	assert.Equal(t, expected.TotalTxSuccess(), actual.TotalTxSuccess())
	assert.Equal(t, expected.TotalTxRetries(), actual.TotalTxRetries())
	assert.Equal(t, expected.TotalTxBad(), actual.TotalTxBad())
	assert.Equal(t, expected.TotalRxSuccess(), actual.TotalRxSuccess())
	assert.Equal(t, expected.TotalRadioOnTimeMillis(), actual.TotalRadioOnTimeMillis())
	assert.Equal(t, expected.TotalRadioTxTimeMillis(), actual.TotalRadioTxTimeMillis())
	assert.Equal(t, expected.TotalRadioRxTimeMillis(), actual.TotalRadioRxTimeMillis())
	assert.Equal(t, expected.TotalScanTimeMillis(), actual.TotalScanTimeMillis())
	assert.Equal(t, expected.TotalNanScanTimeMillis(), actual.TotalNanScanTimeMillis())
	assert.Equal(t, expected.TotalBackgroundScanTimeMillis(), actual.TotalBackgroundScanTimeMillis())
	assert.Equal(t, expected.TotalRoamScanTimeMillis(), actual.TotalRoamScanTimeMillis())
	assert.Equal(t, expected.TotalPnoScanTimeMillis(), actual.TotalPnoScanTimeMillis())
	assert.Equal(t, expected.TotalHotspot2ScanTimeMillis(), actual.TotalHotspot2ScanTimeMillis())
	assert.Equal(t, expected.TotalCcaBusyFreqTimeMillis(), actual.TotalCcaBusyFreqTimeMillis())
	assert.Equal(t, expected.TotalRadioOnFreqTimeMillis(), actual.TotalRadioOnFreqTimeMillis())
	assert.Equal(t, expected.TotalBeaconRx(), actual.TotalBeaconRx())
	assert.Equal(t, expected.ProbeStatusSinceLastUpdate(), actual.ProbeStatusSinceLastUpdate())
	assert.Equal(t, expected.ProbeElapsedTimeSinceLastUpdateMillis(), actual.ProbeElapsedTimeSinceLastUpdateMillis())
	assert.Equal(t, expected.ProbeMcsRateSinceLastUpdate(), actual.ProbeMcsRateSinceLastUpdate())
	assert.Equal(t, expected.RxLinkSpeedMbps(), actual.RxLinkSpeedMbps())

	expectedDuty, expectedErr := expected.TimeSliceDutyCycleInPercent()
	actualDuty, actualErr := actual.TimeSliceDutyCycleInPercent()
	assert.Equal(t, expectedDuty, actualDuty)
	assert.Equal(t, expectedErr == nil, actualErr == nil)

	for _, ac := range []AccessCategory{AccessCategoryBE, AccessCategoryBK, AccessCategoryVI, AccessCategoryVO} {
		assert.Equal(t, expected.ContentionTimeStats(ac), actual.ContentionTimeStats(ac))
	}

	assert.Equal(t, expected.CellularDataNetworkType(), actual.CellularDataNetworkType())
	assert.Equal(t, expected.CellularSignalStrengthDbm(), actual.CellularSignalStrengthDbm())
	assert.Equal(t, expected.CellularSignalStrengthDb(), actual.CellularSignalStrengthDb())
	assert.Equal(t, expected.IsSameRegisteredCell(), actual.IsSameRegisteredCell())
}

func TestUsabilityStatsEntryRoundTrip(t *testing.T) {
	entry := NewUsabilityStatsEntry(testEntryFields(50))

	blob, err := entry.MarshalBinary()
	require.NoError(t, err)

	decoded, err := DecodeUsabilityStatsEntry(blob)
	require.NoError(t, err)

	assertEntriesMatch(t, entry, decoded)
	assert.True(t, entry.Equal(decoded))
	assert.Equal(t, entry.Hash(), decoded.Hash())

	// Spot check the first contention block behind the BE category.
	assert.Equal(t, int64(1), decoded.ContentionTimeStats(AccessCategoryBE).MinMicros)
}

func TestTimeSliceDutyCycleInPercent(t *testing.T) {
	tests := []struct {
		name      string
		dutyCycle int32
		want      int32
		wantErr   bool
	}{
		{"lower boundary", 0, 0, false},
		{"upper boundary", 100, 100, false},
		{"mid value", 32, 32, false},
		{"unknown sentinel", -1, 0, true},
		{"above range", 101, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := NewUsabilityStatsEntry(testEntryFields(tt.dutyCycle))
			got, err := entry.TimeSliceDutyCycleInPercent()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDutyCycleUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUsabilityStatsEntryRoundTripKeepsInvalidDutyCycle(t *testing.T) {
	entry := NewUsabilityStatsEntry(testEntryFields(-1))

	blob, err := entry.MarshalBinary()
	require.NoError(t, err)
	decoded, err := DecodeUsabilityStatsEntry(blob)
	require.NoError(t, err)

	assert.True(t, entry.Equal(decoded))
	_, err = decoded.TimeSliceDutyCycleInPercent()
	assert.ErrorIs(t, err, ErrDutyCycleUnavailable)
}

func TestContentionTimeStatsOutOfRangeCategory(t *testing.T) {
	entry := NewUsabilityStatsEntry(testEntryFields(50))
	assert.Equal(t, ContentionTimeStats{}, entry.ContentionTimeStats(AccessCategory(4)))
	assert.Equal(t, ContentionTimeStats{}, entry.ContentionTimeStats(AccessCategory(-1)))
}

func TestDecodeUsabilityStatsEntryTruncated(t *testing.T) {
	entry := NewUsabilityStatsEntry(testEntryFields(50))
	blob, err := entry.MarshalBinary()
	require.NoError(t, err)

	_, err = DecodeUsabilityStatsEntry(blob[:len(blob)-1])
	assert.ErrorIs(t, err, parcel.ErrTruncated)
}

func TestDecodeUsabilityStatsEntryTrailingBytes(t *testing.T) {
	entry := NewUsabilityStatsEntry(testEntryFields(50))
	blob, err := entry.MarshalBinary()
	require.NoError(t, err)

	_, err = DecodeUsabilityStatsEntry(append(blob, 0x00))
	assert.ErrorIs(t, err, parcel.ErrMalformed)
}

func TestUsabilityStatsEntryEqual(t *testing.T) {
	a := NewUsabilityStatsEntry(testEntryFields(50))
	b := NewUsabilityStatsEntry(testEntryFields(50))
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())

	f := testEntryFields(50)
	f.TotalBeaconRx = 99
	assert.False(t, a.Equal(NewUsabilityStatsEntry(f)))

	var nilEntry *UsabilityStatsEntry
	assert.False(t, a.Equal(nilEntry))
	assert.True(t, nilEntry.Equal(nil))
}

func TestUsabilityStatsEntryUnmarshalBinary(t *testing.T) {
	entry := NewUsabilityStatsEntry(testEntryFields(50))
	blob, err := entry.MarshalBinary()
	require.NoError(t, err)

	var decoded UsabilityStatsEntry
	require.NoError(t, decoded.UnmarshalBinary(blob))
	assert.True(t, entry.Equal(&decoded))

	assert.Error(t, decoded.UnmarshalBinary(blob[:10]))
}
