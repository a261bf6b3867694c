package main

import (
	"fmt"
	"net/http"
)

type healthController struct {
	diagrams func() int
}

func (c healthController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "Healthy\n")
	if c.diagrams != nil {
		fmt.Fprintf(w, "Diagrams: %d\n", c.diagrams())
	}
}
