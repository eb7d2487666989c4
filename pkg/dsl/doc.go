/*
Package dsl provides a fluent builder for programmatically constructing question graphs.

It is the type-safe alternative to YAML graph files, and is what the built-in
catalog is written with.

Example usage:

	g, err := dsl.New("Logo Design").
		Opening("Let's sketch your brand.").
		Details("Timeline: 1-2 weeks (with buffer)").
		Ask("style").
			SingleSelect("Minimal", "Vintage", "Playful").
			Required().
			Say("Which style fits your brand?").
		Ask("mascot").
			Say("Describe the mascot you have in mind.").
			When(domain.Equals("style", "Playful")).
		Build()

Questions are kept in the order they were added. Calling Next on any
question switches the graph to explicit links, in which case every question
needs an ID (either given with ID or defaulted to its key).
*/
package dsl
