/*
Package domain contains the core domain models of the intake engine.

It defines the declarative question graphs, the answer map accumulated during a
conversation, the conversation and message records, and the proposal document
produced at the end of a dialogue. This package is kept pure and free of
external dependencies like I/O or persistence.

# Key Entities

  - Question: One step in a service's graph, optionally skipped by a Predicate.
  - Graph: The static, per-service list of questions plus proposal boilerplate.
  - Answers: The canonical key to value map collected so far.
  - AssistantState: Answers plus the cursor identifying the next question.
  - Conversation / Message: One dialogue session and its bounded history.
  - Proposal: The normalized document assembled from a completed answer map.
*/
package domain
