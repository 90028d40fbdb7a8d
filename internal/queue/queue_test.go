package queue

import (
	"encoding/json"
	"testing"
)

func TestMessageJobID(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
		want    int64
	}{
		{"object with number", `{"job_id": 42}`, 42},
		{"object with digit string", `{"job_id": "42"}`, 42},
		{"string-wrapped object", `"{\"job_id\": 7}"`, 7},
		{"missing job_id", `{"other": 1}`, 0},
		{"non-numeric job_id", `{"job_id": "abc"}`, 0},
		{"zero job_id", `{"job_id": 0}`, 0},
		{"negative job_id", `{"job_id": -3}`, 0},
		{"not an object", `[1, 2]`, 0},
		{"empty payload", ``, 0},
		{"garbage string wrap", `"not json"`, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			msg := Message{MsgID: 1, Payload: json.RawMessage(tc.payload)}
			if got := msg.JobID(); got != tc.want {
				t.Errorf("JobID() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDecodeReadResult(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		rows, err := decodeReadResult([]byte(`[{"msg_id": 1, "message": {"job_id": 5}}, {"msg_id": 2, "message": {"job_id": 6}}]`))
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 2 || rows[0].MsgID != 1 || rows[1].MsgID != 2 {
			t.Errorf("rows = %+v", rows)
		}
	})

	t.Run("single object", func(t *testing.T) {
		rows, err := decodeReadResult([]byte(`{"msg_id": 9, "message": {"job_id": 5}}`))
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 1 || rows[0].MsgID != 9 {
			t.Errorf("rows = %+v", rows)
		}
	})

	t.Run("null", func(t *testing.T) {
		rows, err := decodeReadResult([]byte(`null`))
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 0 {
			t.Errorf("rows = %+v", rows)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := decodeReadResult([]byte(`12`)); err == nil {
			t.Error("expected an error")
		}
	})
}
