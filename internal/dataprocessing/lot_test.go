package dataprocessing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLotOffset(t *testing.T) {
	tests := []struct {
		name         string
		offsetPrefix string
		eventCode    string
		want         int
	}{
		{"default prefix", "", "EVT", 7},
		{"explicit prefix", "LENS", "FEST1", 9},
		{"custom prefix", "AB", "X", 3},
		{"counts characters not bytes", "LENS", "ÉV", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LotOffset(tt.offsetPrefix, tt.eventCode))
		})
	}
}

func TestDeriveLot(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		offset  int
		want    string
		wantErr bool
	}{
		{"scenario code", "LENSEVT001", 7, "0", false},
		{"letter lot", "LENSEVTB01", 7, "B", false},
		{"last character", "LENSEVT9", 7, "9", false},
		{"multibyte characters", "LENSÉV9X", 6, "9", false},
		{"code equal to offset length", "LENSEVT", 7, "", true},
		{"short code", "LEN", 7, "", true},
		{"negative offset", "LENSEVT001", -1, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveLot(tt.code, tt.offset)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedCode))

				var mce *MalformedCodeError
				require.True(t, errors.As(err, &mce))
				assert.Equal(t, tt.code, mce.Code)
				assert.Equal(t, tt.offset, mce.Offset)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMalformedBatchError(t *testing.T) {
	batch := &MalformedBatchError{Errors: []*MalformedCodeError{
		{Code: "LENSEV1", Offset: 7, Line: 2},
		{Code: "LENSEV2", Offset: 7, Line: 5},
	}}

	assert.Contains(t, batch.Error(), "2 malformed product code(s)")
	assert.Contains(t, batch.Error(), "LENSEV1, LENSEV2")
	assert.True(t, errors.Is(batch, ErrMalformedCode))

	var mce *MalformedCodeError
	require.True(t, errors.As(batch, &mce))
	assert.Equal(t, "LENSEV1", mce.Code)
}
