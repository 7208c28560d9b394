// README: Identifier shared by drivers and riders.
package types

type ID string
