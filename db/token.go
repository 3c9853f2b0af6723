package db

type TokenStorage interface {
	ConsumeToken(signature string, firebaseUID string) (bool, error)
}

const (
	// The signature is the registry key: it is unique per issued token and
	// shorter than the token itself. ON CONFLICT DO NOTHING makes the
	// consumption an atomic check-and-set, so two concurrent redemptions of
	// the same token cannot both succeed.
	insertConsumedToken = `
	INSERT INTO consumed_token (signature, firebase_uid, consumed)
	VALUES (:signature, :firebase_uid, now())
	ON CONFLICT (signature) DO NOTHING
	`
)

// ConsumeToken marks a payment token as used. It returns false when the
// token was already consumed.
func (db *DB) ConsumeToken(signature string, firebaseUID string) (bool, error) {
	stmt, err := db.PrepareNamed(insertConsumedToken)
	if err != nil {
		return false, err
	}

	args := map[string]interface{}{
		"signature":    signature,
		"firebase_uid": firebaseUID,
	}

	result, err := stmt.Exec(args)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}
