package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKeyFromPath(t *testing.T) {
	assert.Equal(t, "ImportCompletedEvent/1.0.0", generateKeyFromPath("events/import-completed/v1.json"))
	assert.Equal(t, "", generateKeyFromPath("events/flat.json"))
}

func TestValidateEvent(t *testing.T) {
	valid := []byte(`{
		"event_id": "7f1d7c8e-4a55-4c53-9a3f-0d7b6b1c2a10",
		"source_id": "yandex-main",
		"format": "yandex",
		"target": "all",
		"rows_total": 3,
		"started_at": "2024-05-01T10:00:00Z",
		"finished_at": "2024-05-01T10:00:01Z",
		"listings": {"inserted": 1, "updated": 1, "hidden": 0, "errors": [{"row_index": 3, "error": "missing external_id"}]}
	}`)
	assert.NoError(t, ValidateEvent("ImportCompletedEvent", "1.0.0", valid))

	invalid := []byte(`{"event_id": "x", "source_id": "", "format": "csv"}`)
	assert.Error(t, ValidateEvent("ImportCompletedEvent", "1.0.0", invalid))

	assert.Error(t, ValidateEvent("ImportCompletedEvent", "2.0.0", valid))
	assert.Error(t, ValidateEvent("ImportCompletedEvent", "1.0.0", []byte("not json")))
}
