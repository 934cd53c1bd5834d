package watcher

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		batch       []RawEvent
		synthChange bool
		want        []Event
	}{
		{
			name:        "create",
			batch:       []RawEvent{{Kind: RawCreate, Path: "/r/a"}},
			synthChange: true,
			want:        []Event{{Kind: Create, Path: "/r/a"}},
		},
		{
			name:        "modify",
			batch:       []RawEvent{{Kind: RawModify, Path: "/r/a"}},
			synthChange: true,
			want:        []Event{{Kind: Change, Path: "/r/a"}},
		},
		{
			name:        "remove",
			batch:       []RawEvent{{Kind: RawRemove, Path: "/r/a"}},
			synthChange: true,
			want:        []Event{{Kind: Delete, Path: "/r/a"}},
		},
		{
			name:        "rename source half becomes delete",
			batch:       []RawEvent{{Kind: RawRenameFrom, Path: "/r/old.txt"}},
			synthChange: true,
			want:        []Event{{Kind: Delete, Path: "/r/old.txt"}},
		},
		{
			name:        "rename dest half becomes create plus change",
			batch:       []RawEvent{{Kind: RawRenameTo, Path: "/r/new.txt"}},
			synthChange: true,
			want: []Event{
				{Kind: Create, Path: "/r/new.txt"},
				{Kind: Change, Path: "/r/new.txt"},
			},
		},
		{
			name:        "rename dest half without synthesized change",
			batch:       []RawEvent{{Kind: RawRenameTo, Path: "/r/new.txt"}},
			synthChange: false,
			want:        []Event{{Kind: Create, Path: "/r/new.txt"}},
		},
		{
			name:        "full rename splits into delete then create",
			batch:       []RawEvent{{Kind: RawRenameBoth, Path: "/r/old.txt", Dest: "/r/new.txt"}},
			synthChange: true,
			want: []Event{
				{Kind: Delete, Path: "/r/old.txt"},
				{Kind: Create, Path: "/r/new.txt"},
			},
		},
		{
			name:        "attribute noise is dropped",
			batch:       []RawEvent{{Kind: RawOther, Path: "/r/a"}},
			synthChange: true,
			want:        []Event{},
		},
		{
			name: "splice keeps batch order",
			batch: []RawEvent{
				{Kind: RawCreate, Path: "/r/a"},
				{Kind: RawRenameTo, Path: "/r/b"},
				{Kind: RawRemove, Path: "/r/c"},
			},
			synthChange: true,
			want: []Event{
				{Kind: Create, Path: "/r/a"},
				{Kind: Create, Path: "/r/b"},
				{Kind: Change, Path: "/r/b"},
				{Kind: Delete, Path: "/r/c"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.batch, tt.synthChange)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %v, want %v", got, tt.want)
			}
		})
	}
}
