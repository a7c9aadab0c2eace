package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvListTrimsAndDedupes(t *testing.T) {
	t.Setenv("VERIDOC_TEST_LIST", " kafka-1:9092, kafka-2:9092 ,,kafka-1:9092, ")

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, envList("VERIDOC_TEST_LIST"))
}

func TestEnvListUnsetIsNil(t *testing.T) {
	assert.Nil(t, envList("VERIDOC_TEST_LIST_UNSET"))
}

func TestEnvHelpersFallBack(t *testing.T) {
	t.Setenv("VERIDOC_TEST_INT", "not-a-number")
	t.Setenv("VERIDOC_TEST_DURATION", "soon")

	assert.Equal(t, 3, envInt("VERIDOC_TEST_INT", 3))
	assert.Equal(t, 250*time.Millisecond, envDuration("VERIDOC_TEST_DURATION", 250*time.Millisecond))
}
