package garmin

import (
	"context"
	"fmt"
	"net/http"
	"testing"
)

func TestSetGearDefault(t *testing.T) {
	tests := []struct {
		name        string
		defaultGear bool
		wantMethod  string
		wantPath    string
	}{
		{
			name:        "assign default",
			defaultGear: true,
			wantMethod:  http.MethodPut,
			wantPath:    "/gear-service/gear/abc-123/activityType/1/default/true",
		},
		{
			name:        "remove default",
			defaultGear: false,
			wantMethod:  http.MethodDelete,
			wantPath:    "/gear-service/gear/abc-123/activityType/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath string
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				fmt.Fprint(w, `{}`)
			}))

			if _, err := c.SetGearDefault(context.Background(), "abc-123", 1, tt.defaultGear); err != nil {
				t.Fatalf("SetGearDefault() error = %v", err)
			}
			if gotMethod != tt.wantMethod {
				t.Errorf("method = %q, want %q", gotMethod, tt.wantMethod)
			}
			if gotPath != tt.wantPath {
				t.Errorf("path = %q, want %q", gotPath, tt.wantPath)
			}
		})
	}
}
