package repository

import (
	"time"

	"github.com/fadhilmahendra/otoboost/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
)

// boostPatchUpdate translates a BoostPatch into a Mongo update document.
// Nil pointers leave fields untouched; empty strings and ClearExpiresAt unset.
// The whole patch lands in one UpdateOne, so concurrent patches are
// last-write-wins per field but atomic per document.
func boostPatchUpdate(patch domain.BoostPatch, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	unset := bson.M{}

	if patch.IsBoosted != nil {
		set["is_boosted"] = *patch.IsBoosted
	}
	if patch.PackageCode != nil {
		if *patch.PackageCode == "" {
			unset["boost_package_code"] = ""
		} else {
			set["boost_package_code"] = *patch.PackageCode
		}
	}
	if patch.ClearExpiresAt {
		unset["boost_expires_at"] = ""
	} else if patch.ExpiresAt != nil {
		set["boost_expires_at"] = patch.ExpiresAt.UTC()
	}
	if patch.PaymentReference != nil {
		if *patch.PaymentReference == "" {
			unset["boost_payment_reference"] = ""
		} else {
			set["boost_payment_reference"] = *patch.PaymentReference
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}
