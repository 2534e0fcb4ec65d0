/*
Package canopy compiles multi-agent workflow documents into positioned graphs ready for rendering.

It is the backend of a workflow studio: documents are YAML files describing states, the agents assigned to them, and the transitions between them. Canopy parses the document, derives nodes and edges, assigns canvas coordinates, and serves the result over HTTP, SSE, and MCP.

# Concept

A workflow document is a mapping of states. Each state names its kind (initial, single, fan-out, orchestrator-task, human-approval, terminal), the agents that act in it, and its outgoing transitions. The compiler preserves document order, lays regular states out on a vertical spine, and places terminal states on a bottom row. A document that cannot produce any nodes is replaced wholesale by a built-in example graph, so a rendering client always has something to draw.

# Key Features

  - Total compilation: every input yields a graph; unusable documents substitute the example fixture.
  - Deterministic output: node order, edge identifiers, and positions depend only on the document.
  - Hexagonal architecture: document and persona storage sit behind ports with memory, Redis, and Loam adapters.
  - Revision arbitration: concurrent saves resolve last-writer-wins with explicit conflict reporting.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/canopy"
	)

	func main() {
		// Initialize a studio backed by a Loam repository (reads ./my-studio)
		studio, err := canopy.New("./my-studio")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		doc, rev, err := studio.Document(ctx)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("document at revision", rev, ":", doc)

		// Compile to a positioned graph
		graph, err := studio.Graph(ctx)
		if err != nil {
			log.Fatal(err)
		}
		for _, node := range graph.Nodes {
			fmt.Printf("%s at (%.0f, %.0f)\n", node.ID, node.Position.X, node.Position.Y)
		}
	}

For one-off compilation without storage, use the package-level helpers:

	graph := canopy.Compile(documentText)
	result := canopy.Validate(documentText)
	fmt.Println(canopy.Mermaid(graph))
*/
package canopy
