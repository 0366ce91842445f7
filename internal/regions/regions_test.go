package regions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformFor(t *testing.T) {
	tests := []struct {
		name    string
		region  string
		cluster string
	}{
		{"north america", "na1", "americas"},
		{"brazil", "br1", "americas"},
		{"korea", "kr", "asia"},
		{"japan", "jp1", "asia"},
		{"eu west", "euw1", "europe"},
		{"russia", "ru", "europe"},
		{"oceania", "oc1", "sea"},
		{"vietnam", "vn2", "sea"},
		{"uppercase input", "EUW1", "europe"},
		{"mixed case input", "Na1", "americas"},
		{"unknown region falls open", "xx9", DefaultCluster},
		{"empty region falls open", "", DefaultCluster},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.cluster, PlatformFor(tt.region))
		})
	}
}

func TestQueueName(t *testing.T) {
	assert.Equal(t, "RANKED_SOLO_5x5", QueueName(420))
	assert.Equal(t, "RANKED_FLEX_SR", QueueName(440))
	assert.Equal(t, "ARAM", QueueName(450))
	assert.Equal(t, "QUEUE_1700", QueueName(1700))
}
