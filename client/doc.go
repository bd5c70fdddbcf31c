// Package client drives the backend's streaming response into an assembled
// transcript.
//
// A Session owns one streaming run: it frames the response body into NDJSON
// lines, decodes each line into a typed event, folds the event into the
// transcript, and notifies the caller through per-event-kind handlers
// and a typed event channel.
//
// # Quick Start
//
//	sess := client.NewSession(client.WithHandlers(client.Handlers{
//	    OnContent: func(e protocol.ContentEvent) { fmt.Print(e.Data) },
//	}))
//	if err := sess.Run(ctx, resp.Body); err != nil {
//	    log.Fatal(err)
//	}
//	for _, m := range sess.Transcript().Messages() {
//	    fmt.Println(m.Kind, m.Text)
//	}
//
// # Channel Usage
//
// For consumers that prefer ranging over events:
//
//	go sess.Run(ctx, resp.Body)
//	for event := range sess.Events() {
//	    switch e := event.(type) {
//	    case client.TextEvent:
//	        fmt.Print(e.Text)
//	    case client.ToolStartEvent:
//	        fmt.Printf("\n[tool: %s]\n", e.Calls[0].Name)
//	    }
//	}
//
// The transcript may be shared across runs (conversation history persists);
// the tool-call ledger and the tool-selection indicator are per run. Create
// a new Session for each user turn, passing the shared transcript with
// WithTranscript.
package client
