package events_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/events"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Events(t *testing.T) {
	t.Log("Given the need to fan out node events.")
	{
		evts := events.New()

		ch1 := evts.Acquire("1")
		ch2 := evts.Acquire("2")
		if evts.Acquire("1") != ch1 || evts.Listeners() != 2 {
			t.Fatalf("\t%s\tShould get the same channel for the same id.", failed)
		}
		t.Logf("\t%s\tShould get the same channel for the same id.", success)

		evts.Send("mined")
		if <-ch1 != "mined" || <-ch2 != "mined" {
			t.Fatalf("\t%s\tShould deliver the event to every listener.", failed)
		}
		t.Logf("\t%s\tShould deliver the event to every listener.", success)

		for i := 0; i < 500; i++ {
			evts.Send("flood")
		}
		t.Logf("\t%s\tShould not block on a slow listener.", success)

		if err := evts.Release("1"); err != nil {
			t.Fatalf("\t%s\tShould be able to release a listener: %v", failed, err)
		}
		if err := evts.Release("1"); err == nil {
			t.Fatalf("\t%s\tShould not be able to release a listener twice.", failed)
		}
		t.Logf("\t%s\tShould be able to release a listener once.", success)

		evts.Shutdown()
		if evts.Listeners() != 0 {
			t.Fatalf("\t%s\tShould remove every listener on shutdown.", failed)
		}

		n := 0
		for range ch2 {
			n++
		}
		if n == 0 {
			t.Fatalf("\t%s\tShould keep buffered events until the channel is drained.", failed)
		}
		t.Logf("\t%s\tShould close every channel on shutdown.", success)
	}
}
