// Package barcode implementa la aritmética de dígito verificador para los
// formatos de código de barras que maneja el almacén (EAN-13, UPC-A y un
// CODE128 genérico sin checksum). Funciones puras, sin estado.
package barcode

import (
	"fmt"
	"strings"

	"github.com/jhoicas/almacen-api/internal/domain"
)

// Scheme formato de código de barras.
type Scheme string

const (
	EAN13   Scheme = "EAN13"
	UPCA    Scheme = "UPC"
	CODE128 Scheme = "CODE128"
)

// Errores del codec. Todos envuelven domain.ErrInvalidInput.
var (
	ErrUnknownScheme    = fmt.Errorf("%w: formato de código de barras desconocido", domain.ErrInvalidInput)
	ErrInvalidLength    = fmt.Errorf("%w: longitud de código inválida", domain.ErrInvalidInput)
	ErrInvalidCharacter = fmt.Errorf("%w: carácter inválido en el código", domain.ErrInvalidInput)
	ErrNoChecksum       = fmt.Errorf("%w: el formato no define dígito verificador", domain.ErrInvalidInput)
)

// ParseScheme normaliza el nombre del formato (sin distinguir mayúsculas; acepta EAN-13, UPC-A).
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EAN13", "EAN-13", "EAN":
		return EAN13, nil
	case "UPC", "UPC-A", "UPCA":
		return UPCA, nil
	case "CODE128", "CODE-128":
		return CODE128, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
}

// PayloadLength número de dígitos de datos (sin el verificador). 0 para CODE128.
func PayloadLength(s Scheme) int {
	switch s {
	case EAN13:
		return 12
	case UPCA:
		return 11
	}
	return 0
}

// ComputeCheckDigit calcula el dígito verificador del payload.
//
// EAN-13: posiciones 1..12 desde la izquierda, impares peso 1 y pares peso 3.
// UPC-A: posiciones 1..11, impares peso 3 y pares peso 1 (equivale a EAN-13 con un 0 delante).
// En ambos casos check = (10 - suma mod 10) mod 10.
func ComputeCheckDigit(payload string, scheme Scheme) (int, error) {
	var oddWeight, evenWeight int
	switch scheme {
	case EAN13:
		oddWeight, evenWeight = 1, 3
	case UPCA:
		oddWeight, evenWeight = 3, 1
	case CODE128:
		return 0, ErrNoChecksum
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}

	if len(payload) != PayloadLength(scheme) {
		return 0, fmt.Errorf("%w: se esperaban %d dígitos, se recibieron %d", ErrInvalidLength, PayloadLength(scheme), len(payload))
	}

	sum := 0
	for i := 0; i < len(payload); i++ {
		c := payload[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%w: %q en la posición %d", ErrInvalidCharacter, c, i+1)
		}
		d := int(c - '0')
		if i%2 == 0 {
			sum += d * oddWeight
		} else {
			sum += d * evenWeight
		}
	}
	return (10 - sum%10) % 10, nil
}

// Append devuelve payload con su dígito verificador al final.
func Append(payload string, scheme Scheme) (string, error) {
	d, err := ComputeCheckDigit(payload, scheme)
	if err != nil {
		return "", err
	}
	return payload + string(rune('0'+d)), nil
}

// Validate indica si code es un código completo válido para el formato.
// CODE128 solo exige ser alfanumérico y no vacío.
func Validate(code string, scheme Scheme) bool {
	switch scheme {
	case EAN13, UPCA:
		n := PayloadLength(scheme)
		if len(code) != n+1 {
			return false
		}
		last := code[n]
		if last < '0' || last > '9' {
			return false
		}
		d, err := ComputeCheckDigit(code[:n], scheme)
		return err == nil && int(last-'0') == d
	case CODE128:
		return code != "" && isAlphanumeric(code)
	}
	return false
}

// CheckCode valida un código suministrado al registrar un producto con el esquema genérico:
// cualquier cadena alfanumérica no vacía. Un código numérico de 12 o 13 dígitos no se
// trata como UPC-A o EAN-13; para verificar su dígito de control está Validate.
func CheckCode(code string) error {
	if code == "" {
		return fmt.Errorf("%w: código vacío", ErrInvalidLength)
	}
	if !isAlphanumeric(code) {
		return fmt.Errorf("%w: solo se permiten letras y dígitos", ErrInvalidCharacter)
	}
	return nil
}

func isAlphanumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			continue
		}
		return false
	}
	return true
}
