package main

import (
	"reflect"
	"testing"
)

const id = "3f1c2a9e-5b7d-4c1e-9a0f-2d6b8e4c7a51"

func TestRewriteTaskLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"tasklist"},
			want: []string{"tasklist"},
		},
		{
			name: "task id first token",
			in:   []string{"tasklist", id},
			want: []string{"tasklist", "tasks", "show", id},
		},
		{
			name: "task id after value flag",
			in:   []string{"tasklist", "--dir", "./tmp-data", id},
			want: []string{"tasklist", "--dir", "./tmp-data", "tasks", "show", id},
		},
		{
			name: "task id after equals flag",
			in:   []string{"tasklist", "--format=yaml", id},
			want: []string{"tasklist", "--format=yaml", "tasks", "show", id},
		},
		{
			name: "task id after bool flag",
			in:   []string{"tasklist", "--pretty", id},
			want: []string{"tasklist", "--pretty", "tasks", "show", id},
		},
		{
			name: "task id after double dash",
			in:   []string{"tasklist", "--log-level", "debug", "--", id},
			want: []string{"tasklist", "--log-level", "debug", "--", "tasks", "show", id},
		},
		{
			name: "value flag swallows an id-shaped value",
			in:   []string{"tasklist", "--dir", id},
			want: []string{"tasklist", "--dir", id},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"tasklist", "tasks", "show", id},
			want: []string{"tasklist", "tasks", "show", id},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"tasklist", "wat"},
			want: []string{"tasklist", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteTaskLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteTaskLookupArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
