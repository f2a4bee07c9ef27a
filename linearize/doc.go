// Package linearize implements Component F: removing ancestor/descendant
// redundancy from a sorted sequence (Linearize), and dropping quadrants a
// process no longer owns after a boundary shifts (RemoveNonOwned).
package linearize
