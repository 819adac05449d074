// Package job manages job postings: the resource records that the public
// API serves and that account owners create, publish, and retire.
//
// A posting belongs to exactly one owner. Unpublished postings are drafts
// visible only to their owner and to admins; publishing flips a single flag
// and makes the posting world-readable. Deleting an owner cascades to their
// postings at the database level.
package job
