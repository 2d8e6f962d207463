package auth

// Claims representa la identidad extraída del token. UserID define el namespace
// de almacenamiento de las mascotas del usuario.
type Claims struct {
	UserID string
	Email  string
}
