// Package vtest provides helpers for testing code that presents alerts.
//
// A Harness wires a vdom.Document, a fake clock and an alert.Presenter
// together, so lifecycle timing can be asserted without sleeping:
//
//	func TestSaveShowsAlert(t *testing.T) {
//	    h := vtest.New(t)
//	    h.Presenter.Success(context.Background(), "Saved!")
//
//	    el := h.Alerts()[0]
//	    h.AdvanceToHide()
//	    if el.ClassList().Contains("show") {
//	        t.Fatal("alert still visible")
//	    }
//	    h.AdvanceToDetach()
//	    h.WaitDetached(1)
//	}
//
// Clock callbacks run on their own goroutines; the Advance helpers block
// until the scheduled work has happened before returning.
package vtest
