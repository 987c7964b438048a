// Package domain contains the core business entities, value objects, and
// domain logic of the reading-plan system. It represents the heart of the
// application, independent of any specific infrastructure or delivery
// mechanism.
package domain
