package qrcode

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataURL(t *testing.T) {
	url, err := DataURL(`{"paymentId":"PAY-1-1","amount":700}`)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, Size, img.Bounds().Dx())
}

func TestDataURL_Deterministic(t *testing.T) {
	a, err := DataURL("same payload")
	require.NoError(t, err)
	b, err := DataURL("same payload")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
