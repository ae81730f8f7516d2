package apiclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zentasks/zentasks/internal/domain"
)

func TestTaskDTO_Decode(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantID     string
		wantStatus domain.Status
		wantDue    string
	}{
		{
			name:       "string id and taskStatus",
			body:       `{"id":"a1","title":"T","taskStatus":"IN_PROGRESS","dueDate":"2026-05-01"}`,
			wantID:     "a1",
			wantStatus: domain.StatusInProgress,
			wantDue:    "2026-05-01",
		},
		{
			name:       "numeric id and legacy status alias",
			body:       `{"id":42,"title":"T","status":"DONE","dueDate":"2026-05-01T10:00:00"}`,
			wantID:     "42",
			wantStatus: domain.StatusCompleted,
			wantDue:    "2026-05-01",
		},
		{
			name:       "rfc3339 due date and server quadrant",
			body:       `{"id":"x","taskStatus":"TODO","quadrant":"DO_NOW","dueDate":"2026-05-01T00:00:00Z"}`,
			wantID:     "x",
			wantStatus: domain.StatusCreated,
			wantDue:    "2026-05-01",
		},
		{
			name:       "null due date",
			body:       `{"id":"y","taskStatus":"CANCELLED","dueDate":null}`,
			wantID:     "y",
			wantStatus: domain.StatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dto taskDTO
			require.NoError(t, json.Unmarshal([]byte(tt.body), &dto))

			task := dto.toDomain()

			assert.Equal(t, tt.wantID, task.ID)
			assert.Equal(t, tt.wantStatus, task.Status)
			if tt.wantDue == "" {
				assert.Nil(t, task.DueDate)
			} else {
				require.NotNil(t, task.DueDate)
				assert.Equal(t, tt.wantDue, task.DueDate.Format(domain.DateLayout))
			}
		})
	}
}

func TestTaskList_Envelopes(t *testing.T) {
	for _, body := range []string{
		`[{"id":"1"},{"id":"2"}]`,
		`{"content":[{"id":"1"},{"id":"2"}],"totalElements":2}`,
		`{"tasks":[{"id":"1"},{"id":"2"}]}`,
		`{"data":[{"id":"1"},{"id":"2"}]}`,
	} {
		var l taskList
		require.NoError(t, json.Unmarshal([]byte(body), &l), body)
		assert.Len(t, l.toDomain(), 2, body)
	}

	var empty taskList
	require.NoError(t, json.Unmarshal([]byte(`[]`), &empty))
	assert.NotNil(t, empty.toDomain())
	assert.Empty(t, empty.toDomain())
}

func TestUpdateTaskRequest_Sparse(t *testing.T) {
	urgent := false
	status := domain.Status("DONE")

	data, err := json.Marshal(newUpdateTaskRequest(domain.TaskPatch{IsUrgent: &urgent, Status: &status}))

	require.NoError(t, err)
	assert.JSONEq(t, `{"isUrgent":false,"taskStatus":"COMPLETED"}`, string(data))
}

func TestDecodeError(t *testing.T) {
	err := decodeError(400, []byte(`{"message":"Title is required"}`))
	assert.Equal(t, "http error 400: Title is required", err.Error())

	err = decodeError(409, []byte(`{"error":"conflict"}`))
	assert.Contains(t, err.Error(), "conflict")

	err = decodeError(502, []byte(`<html>bad gateway</html>`))
	assert.Equal(t, "http error 502: Bad Gateway", err.Error())
}
