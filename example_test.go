package intake_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/pkg/dsl"
	"github.com/aretw0/intake/pkg/registry"
)

// ExampleEngine_Handle walks a small in-memory graph from first contact to the proposal.
func ExampleEngine_Handle() {
	graph := dsl.New("Logo Design").
		Details("Timeline: 1-2 weeks (with buffer)").
		Ask("style").SingleSelect("Minimal", "Vintage", "Playful").Required().
		Say("Which style fits your brand?").
		Ask("budget").Required().
		Say("What budget do you have in mind?").
		Ask("notes").
		Say("Anything else we should know?").
		MustBuild()

	eng, err := intake.New(intake.WithRegistry(registry.MustNew(graph)))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	reply, err := eng.Handle(ctx, intake.Turn{Service: "Logo Design"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(reply.Question, reply.Suggestions)

	for _, msg := range []string{"minimal", "40k", "skip"} {
		reply, err = eng.Handle(ctx, intake.Turn{ConversationID: reply.ConversationID, Message: msg})
		if err != nil {
			log.Fatal(err)
		}
		if !reply.Done {
			fmt.Println(reply.Question)
		}
	}
	fmt.Println(reply.Done, reply.Proposal.Budget, reply.Proposal.Timeline)

	// Output:
	// style [Minimal Vintage Playful]
	// budget
	// notes
	// true 40000 1-2 weeks
}
