package mdevent_test

import (
	"errors"
	"testing"

	"github.com/yaklabco/mdmath/pkg/mdevent"
)

func span(typ mdevent.TokenType, start, end int) *mdevent.Token {
	return &mdevent.Token{
		Type:  typ,
		Start: mdevent.Point{Line: 1, Column: start + 1, Offset: start},
		End:   mdevent.Point{Line: 1, Column: end + 1, Offset: end},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	outer := span(mdevent.TypeMathText, 0, 5)
	open := span(mdevent.TypeMathTextSequence, 0, 2)
	data := span(mdevent.TypeMathTextData, 2, 3)
	closing := span(mdevent.TypeMathTextSequence, 3, 5)
	backwards := span(mdevent.TypeData, 3, 1)

	wellFormed := []mdevent.Event{
		mdevent.EnterEvent(outer),
		mdevent.EnterEvent(open), mdevent.ExitEvent(open),
		mdevent.EnterEvent(data), mdevent.ExitEvent(data),
		mdevent.EnterEvent(closing), mdevent.ExitEvent(closing),
		mdevent.ExitEvent(outer),
	}

	tests := []struct {
		name    string
		events  []mdevent.Event
		wantErr bool
	}{
		{"empty", nil, false},
		{"well formed", wellFormed, false},
		{"never exited", wellFormed[:7], true},
		{"exit without enter", []mdevent.Event{mdevent.ExitEvent(data)}, true},
		{
			name: "crossed exits",
			events: []mdevent.Event{
				mdevent.EnterEvent(outer),
				mdevent.EnterEvent(data),
				mdevent.ExitEvent(outer),
				mdevent.ExitEvent(data),
			},
			wantErr: true,
		},
		{
			name: "entered twice",
			events: []mdevent.Event{
				mdevent.EnterEvent(data), mdevent.ExitEvent(data),
				mdevent.EnterEvent(data), mdevent.ExitEvent(data),
			},
			wantErr: true,
		},
		{
			name:    "backwards span",
			events:  []mdevent.Event{mdevent.EnterEvent(backwards), mdevent.ExitEvent(backwards)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := mdevent.Validate(tt.events)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, mdevent.ErrMalformed) {
				t.Errorf("error %v does not wrap ErrMalformed", err)
			}
		})
	}
}

func TestLeavesAndCovers(t *testing.T) {
	t.Parallel()

	outer := span(mdevent.TypeMathText, 0, 5)
	open := span(mdevent.TypeMathTextSequence, 0, 2)
	data := span(mdevent.TypeMathTextData, 2, 3)
	closing := span(mdevent.TypeMathTextSequence, 3, 5)

	events := []mdevent.Event{
		mdevent.EnterEvent(outer),
		mdevent.EnterEvent(open), mdevent.ExitEvent(open),
		mdevent.EnterEvent(data), mdevent.ExitEvent(data),
		mdevent.EnterEvent(closing), mdevent.ExitEvent(closing),
		mdevent.ExitEvent(outer),
	}

	leaves := mdevent.Leaves(events)
	if len(leaves) != 3 {
		t.Fatalf("got %d leaves, want 3", len(leaves))
	}
	if !mdevent.Covers(leaves, 0, 5) {
		t.Error("leaves should cover [0, 5)")
	}
	if mdevent.Covers(leaves, 0, 6) {
		t.Error("leaves should not cover [0, 6)")
	}
	if mdevent.Covers([]*mdevent.Token{open, closing}, 0, 5) {
		t.Error("a gap must not count as covered")
	}
	if !mdevent.Covers(nil, 4, 4) {
		t.Error("no leaves cover an empty range")
	}
}

func TestChildrenAndClosing(t *testing.T) {
	t.Parallel()

	outer := span(mdevent.TypeMathText, 0, 5)
	open := span(mdevent.TypeMathTextSequence, 0, 2)
	data := span(mdevent.TypeMathTextData, 2, 3)

	events := []mdevent.Event{
		mdevent.EnterEvent(outer),
		mdevent.EnterEvent(open), mdevent.ExitEvent(open),
		mdevent.EnterEvent(data), mdevent.ExitEvent(data),
		mdevent.ExitEvent(outer),
	}

	children := mdevent.Children(events, 0)
	if len(children) != 2 || children[0] != [2]int{1, 2} || children[1] != [2]int{3, 4} {
		t.Errorf("Children = %v", children)
	}
	if got := mdevent.Closing(events, 0); got != 5 {
		t.Errorf("Closing = %d, want 5", got)
	}
	if got := mdevent.Closing(events, 2); got != -1 {
		t.Errorf("Closing on an exit = %d, want -1", got)
	}
}

func TestWalkDepth(t *testing.T) {
	t.Parallel()

	outer := span(mdevent.TypeParagraph, 0, 1)
	inner := span(mdevent.TypeData, 0, 1)
	events := []mdevent.Event{
		mdevent.EnterEvent(outer), mdevent.EnterEvent(inner),
		mdevent.ExitEvent(inner), mdevent.ExitEvent(outer),
	}

	var depths []int
	err := mdevent.Walk(events, func(_ mdevent.Event, depth int) error {
		depths = append(depths, depth)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 1, 1, 0}
	for i := range want {
		if depths[i] != want[i] {
			t.Fatalf("depths = %v, want %v", depths, want)
		}
	}
}
