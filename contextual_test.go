package container_test

import (
	"testing"

	"github.com/illuminate/container"
)

func TestContextual_OverridesRegistryForOneConsumer(t *testing.T) {
	c := container.New()
	c.Bind("filesystem", func(*container.Container) (any, error) { return "local-disk", nil })

	c.Bind("photo.controller", func(c *container.Container) (any, error) {
		return c.Make("filesystem")
	})
	c.When("photo.controller").Needs("filesystem").Give(func(*container.Container) (any, error) {
		return "s3", nil
	})

	if got := c.MustMake("photo.controller"); got != "s3" {
		t.Errorf("contextual binding should win for the consumer, got %v", got)
	}
	if got := c.MustMake("filesystem"); got != "local-disk" {
		t.Errorf("direct resolution should be unaffected, got %v", got)
	}
}

func TestContextual_GiveValue(t *testing.T) {
	c := container.New()
	c.Bind("uploader", func(c *container.Container) (any, error) {
		return c.Make("storage.path")
	})
	c.When("uploader").Needs("storage.path").GiveValue("/tmp/photos")

	if got := c.MustMake("uploader"); got != "/tmp/photos" {
		t.Errorf("got %v, want the given value", got)
	}
}

func TestContextual_NeverCached(t *testing.T) {
	c := container.New()
	c.Bind("consumer", func(c *container.Container) (any, error) {
		return c.Make("dep")
	})
	c.When("consumer").Needs("dep").Give(freshRepo)

	a := c.MustMake("consumer")
	b := c.MustMake("consumer")
	if a == b {
		t.Error("contextual factories should run fresh per resolution")
	}
	if c.Resolved("dep") {
		t.Error("contextual results must not land in the instance cache")
	}
}
