// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package admission decides whether a vote is accepted.

A submission passes these checks in order:

 1. the option exists (ErrOptionNotFound)
 2. its poll is published (ErrPollUnpublished), owners included
 3. the voter has no vote in the poll yet (ErrAlreadyVoted)
 4. the insert succeeds (ErrAlreadyVoted if the unique constraint fires)

Step 3 is a shortcut. Two concurrent submissions from one voter can both
pass it; the store's unique constraint then lets exactly one insert through
and the other gets the same ErrAlreadyVoted. There is no application lock.

Store failures come back wrapped in ErrUnavailable with the cause logged,
not returned.

Once the vote is stored the controller recomputes the tally and publishes
it before SubmitVote returns. That work runs on a context detached from
the caller's, so a client hanging up does not stop the broadcast.
*/
package admission
