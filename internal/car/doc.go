// Package car holds the catalog domain: listings, the favorites
// relation, their repositories, usecases and HTTP delivery.
package car
