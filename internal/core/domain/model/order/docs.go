// Package order provides the Order aggregate root for the production
// workflow. An order is created at the entry station of the configured
// pipeline and advances one station at a time until completion.
//
// The package includes:
//   - Order: the aggregate root tracking identity, commercial data, and
//     the order's current position in the pipeline
//   - Product: a value object for the order's line items
//
// Key business rules:
//   - Orders must have a valid unique identifier, order number, and QR token
//   - Station moves go through AdvanceTo and only to the immediate successor
//   - Reaching the terminal station stamps the completion time exactly once
//
// The package follows Domain-Driven Design principles, providing rich
// domain behavior, encapsulation, and validation to ensure business rules
// are enforced.
package order
