package acf

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishModel(t *testing.T) {
	client := NewStubClient()
	p := NewPublisher(client, "fleet")

	err := p.PublishModel("bravo", []byte("<sdf/>"))
	require.NoError(t, err)

	published := client.Published()
	require.Len(t, published, 1)
	assert.Equal(t, "fleet/model/bravo", published[0].Topic)
	assert.Equal(t, []byte("<sdf/>"), published[0].Payload)
	assert.Equal(t, byte(1), published[0].QoS)
	assert.True(t, published[0].Retain, "models should be retained for late subscribers")
}

func TestPublishModelDefaultPrefix(t *testing.T) {
	client := NewStubClient()
	p := NewPublisher(client, "")

	require.NoError(t, p.PublishModel("bravo", []byte("x")))

	published := client.Published()
	require.Len(t, published, 1)
	assert.Equal(t, DefaultPublishPrefix+"/model/bravo", published[0].Topic)
}

func TestPublishModelNotConnected(t *testing.T) {
	client := NewStubClient()
	client.SetConnected(false)
	p := NewPublisher(client, "fleet")

	err := p.PublishModel("bravo", []byte("x"))
	assert.Error(t, err)
	assert.Empty(t, client.Published())
}

func TestPublishModelBrokerError(t *testing.T) {
	client := NewStubClient()
	client.SetPublishError(errors.New("broker rejected"))
	p := NewPublisher(client, "fleet")

	err := p.PublishModel("bravo", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fleet/model/bravo")
}

func TestPublishReport(t *testing.T) {
	client := NewStubClient()
	p := NewPublisher(client, "fleet")

	scene := sampleScene()
	report := NewConversionReport(scene, Diagnostics{
		{Severity: SeverityWarning, Key: "k", Message: "m"},
	})
	require.NoError(t, p.PublishReport(report))

	published := client.Published()
	require.Len(t, published, 1)
	assert.Equal(t, "fleet/report/sample_craft", published[0].Topic)

	var decoded ConversionReport
	require.NoError(t, json.Unmarshal(published[0].Payload, &decoded))
	assert.Equal(t, "sample_craft", decoded.Model)
	assert.Equal(t, 2, decoded.Parts)
	assert.Equal(t, 12, decoded.Points)
	assert.Equal(t, 2, decoded.Rotors)
	assert.Equal(t, 2, decoded.Wings)
	assert.Equal(t, 1, decoded.Gear)
	assert.Len(t, decoded.Diagnostics, 1)
	assert.NotZero(t, decoded.Timestamp)
}

func TestSetQoS(t *testing.T) {
	client := NewStubClient()
	p := NewPublisher(client, "fleet")

	p.SetQoS(0)
	require.NoError(t, p.PublishModel("a", []byte("x")))

	p.SetQoS(3) // out of range, ignored
	require.NoError(t, p.PublishModel("b", []byte("x")))

	published := client.Published()
	require.Len(t, published, 2)
	assert.Equal(t, byte(0), published[0].QoS)
	assert.Equal(t, byte(0), published[1].QoS)
}
