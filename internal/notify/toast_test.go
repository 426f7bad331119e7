package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findToast(toasts []Toast, id string) bool {
	for _, t := range toasts {
		if t.ID == id {
			return true
		}
	}
	return false
}

func TestCenter_PushAssignsIDAndDefaults(t *testing.T) {
	c := NewCenter()
	id := c.Push(Toast{Title: "Saved"})

	require.NotEmpty(t, id)
	toasts := c.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, id, toasts[0].ID)
	assert.Equal(t, VariantDefault, toasts[0].Variant)
}

func TestCenter_AutoDismissAfterDuration(t *testing.T) {
	c := NewCenter()
	id := c.Push(Toast{Title: "Gone soon", Duration: 30 * time.Millisecond})

	// Present immediately after creation.
	assert.True(t, findToast(c.Toasts(), id))

	require.Eventually(t, func() bool {
		return !findToast(c.Toasts(), id)
	}, time.Second, 5*time.Millisecond, "toast must expire after its duration")
}

func TestCenter_ZeroDurationNeverAutoDismisses(t *testing.T) {
	c := NewCenter()
	id := c.Push(Toast{Title: "Sticky", Duration: 0})

	time.Sleep(60 * time.Millisecond)
	assert.True(t, findToast(c.Toasts(), id), "duration 0 disables auto-dismiss")

	c.Dismiss(id)
	assert.False(t, findToast(c.Toasts(), id))
}

func TestCenter_DismissUnknownIDIsIgnored(t *testing.T) {
	c := NewCenter()
	c.Push(Toast{Title: "Stay"})
	c.Dismiss("no-such-id")
	assert.Len(t, c.Toasts(), 1)
}

func TestCenter_DuplicatesStack(t *testing.T) {
	c := NewCenter()
	c.Push(Toast{Title: "Same message"})
	c.Push(Toast{Title: "Same message"})

	toasts := c.Toasts()
	require.Len(t, toasts, 2)
	assert.NotEqual(t, toasts[0].ID, toasts[1].ID)
}

func TestCenter_ClearAll(t *testing.T) {
	c := NewCenter()
	c.Push(Toast{Title: "One"})
	c.Push(Toast{Title: "Two", Duration: time.Minute})

	c.ClearAll()
	assert.Empty(t, c.Toasts())
}

func TestCenter_SubscribersReceiveFullList(t *testing.T) {
	c := NewCenter()

	var snapshots [][]Toast
	unsubscribe := c.Subscribe(func(toasts []Toast) {
		snapshots = append(snapshots, toasts)
	})

	first := c.Push(Toast{Title: "A"})
	c.Push(Toast{Title: "B"})
	c.Dismiss(first)

	require.Len(t, snapshots, 3)
	assert.Len(t, snapshots[0], 1)
	assert.Len(t, snapshots[1], 2)
	require.Len(t, snapshots[2], 1)
	assert.Equal(t, "B", snapshots[2][0].Title)

	unsubscribe()
	c.Push(Toast{Title: "C"})
	assert.Len(t, snapshots, 3, "unsubscribed listener must not fire")
}

func TestCenter_InsertionOrderPreserved(t *testing.T) {
	c := NewCenter()
	c.Push(Toast{Title: "first"})
	c.Push(Toast{Title: "second"})
	c.Push(Toast{Title: "third"})

	toasts := c.Toasts()
	require.Len(t, toasts, 3)
	assert.Equal(t, "first", toasts[0].Title)
	assert.Equal(t, "second", toasts[1].Title)
	assert.Equal(t, "third", toasts[2].Title)
}

func TestCenter_Helpers(t *testing.T) {
	c := NewCenter()
	c.Info("Done", "All good")
	c.Error("Failed", "Not good")

	toasts := c.Toasts()
	require.Len(t, toasts, 2)
	assert.Equal(t, VariantDefault, toasts[0].Variant)
	assert.Equal(t, DefaultDuration, toasts[0].Duration)
	assert.Equal(t, VariantDestructive, toasts[1].Variant)
}
