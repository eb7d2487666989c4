/*
Package intake is a conversational intake engine. It walks a client through a
per-service question graph, fills in a structured answer map, and assembles a
proposal document once every applicable question is settled.

# Concept

Each service offering (e.g. "Website Development") is described by a question
graph: canonical answer keys, phrasing templates, quick-reply suggestions and
predicates that skip questions which do not apply. The Engine owns no I/O of
its own. A host (CLI, HTTP server, MCP agent) feeds it one inbound message per
turn and relays the reply.

Answers given in one conversation are kept for a few hours in a shared context
and silently prefill matching questions in the next conversation of the same
user or session.

# Usage

	eng, err := intake.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	reply, err := eng.Handle(ctx, intake.Turn{Service: "Website Development", Message: "hi"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(reply.Message, reply.Suggestions)

	for !reply.Done {
		reply, err = eng.Handle(ctx, intake.Turn{
			ConversationID: reply.ConversationID,
			Message:        readLine(),
		})
		if err != nil {
			log.Fatal(err)
		}
	}
	fmt.Println(reply.Proposal.Text)

# Storage

By default conversations and shared context live in process memory and are
lost on restart. Hosts running several replicas can plug in the redis
adapters from pkg/adapters/redis together with a distributed locker.
*/
package intake
