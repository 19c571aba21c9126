// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ranking orders entries for display and derives judging status text.

Both functions are pure: no I/O, no clock, no store access.

Rank is a total order - idempotent and stable. Fully-judged entries sort
ahead of everything else by descending total; all other entries (whether
they hold zero marks or one) sort by name. Name comparison is
locale-aware and case-insensitive via golang.org/x/text/collate.

StatusFor implements the disclosure-asymmetric status machine: judges get
a per-judge breakdown, public and admin viewers get only the aggregate.
*/
package ranking
