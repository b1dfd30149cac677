// Package postcli sends personalized plaintext emails from a CSV contact list.
//
// A campaign renders one Liquid template per contact, sends each message over SMTP
// in list order and appends every outcome to a send log. The log makes a campaign
// resumable: a later run with the same template, contacts file and subject skips
// everyone already sent. An optional exclusion list (contacted.csv) keeps contacts
// from being mailed twice across campaigns.
//
// Key subpackages:
//
//	github.com/pixelvide/postcli/pkg/campaign  - Campaign engine (filtering, preview, delivery, finalize)
//	github.com/pixelvide/postcli/pkg/contacts  - CSV contacts and exclusion list
//	github.com/pixelvide/postcli/pkg/sendlog   - Append-only send log and resume keys
//	github.com/pixelvide/postcli/pkg/render    - Template rendering and links.json
//	github.com/pixelvide/postcli/pkg/mail      - SMTP transport and error classification
//	github.com/pixelvide/postcli/pkg/schedule  - Cron runs with distributed locks
//	github.com/pixelvide/postcli/pkg/driver    - Send log mirrors (redis, database, sqs)
//	github.com/pixelvide/postcli/pkg/config    - Environment configuration
//
// Example Usage:
//
//	package main
//
//	import (
//		"context"
//
//		"github.com/pixelvide/postcli/pkg/campaign"
//	)
//
//	func main() {
//		engine := campaign.New()
//		_, err := engine.Run(context.Background(), campaign.RunConfig{
//			TemplatePath: "templates/fullstack.txt",
//			ContactsPath: "contacts.csv",
//			Subject:      "Hello",
//			DryRun:       true,
//			Resume:       true,
//		})
//		if err != nil {
//			panic(err)
//		}
//	}
package postcli
