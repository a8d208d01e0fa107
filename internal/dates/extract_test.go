package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHistoryBlock(t *testing.T) {
	e := NewExtractor(DefaultExtractorConfig(), nil)

	text := "Article history:\n" +
		"Received 14 March 2024\n" +
		"Received in revised form 2 June 2024\n" +
		"Accepted 18 June 2024\n" +
		"Available online 1 July 2024\n"

	got := e.Extract(text)
	assert.Equal(t, "2024-03-14", got[Received])
	assert.Equal(t, "2024-06-02", got[RevisedReceived])
	assert.Equal(t, "2024-06-18", got[Accepted])
	assert.Equal(t, "2024-07-01", got[AvailableOnline])
	_, hasPublished := got[Published]
	assert.False(t, hasPublished, "published must stay empty when online date found")
}

func TestExtractRevisedDoesNotShadowReceived(t *testing.T) {
	e := NewExtractor(DefaultExtractorConfig(), nil)

	// Only the revised-form line is present; plain Received must not pick
	// up its date as the submission date via the shared keyword.
	text := "Received in revised form 2 June 2024\nAccepted 18 June 2024"
	got := e.Extract(text)

	assert.Equal(t, "2024-06-02", got[RevisedReceived])
	_, hasReceived := got[Received]
	assert.False(t, hasReceived)
}

func TestExtractAvailableOnlineCitationInterference(t *testing.T) {
	e := NewExtractor(DefaultExtractorConfig(), nil)

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "clean online date",
			text: "Available online 12 August 2023",
			want: "2023-08-12",
		},
		{
			name: "journal text close to keyword still matches",
			text: "Available online Computers and Electronics 12 August 2023",
			want: "2023-08-12",
		},
		{
			name: "distant citation date rejected, relaxed pass recovers",
			text: "Available online at the publisher archive, Journal of Agriculture Volume 210 extended listing 12 August 2023",
			want: "2023-08-12",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text)
			assert.Equal(t, tt.want, got[AvailableOnline])
		})
	}
}

func TestExtractPublishedOnlyWithoutOnline(t *testing.T) {
	e := NewExtractor(DefaultExtractorConfig(), nil)

	got := e.Extract("Published 5 May 2022 in print form.")
	require.Equal(t, "2022-05-05", got[Published])
}

func TestExtractEmptyText(t *testing.T) {
	e := NewExtractor(DefaultExtractorConfig(), nil)
	assert.Empty(t, e.Extract(""))
}
